package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/platform/logger"
	"github.com/milonlex/milon-api/internal/store"
)

// WordStore implements store.WordStore over a relational backend.
type WordStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewWordStore creates a WordStore over the given connection or transaction.
func NewWordStore(db store.DBTX, dialect Dialect, log *slog.Logger) *WordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &WordStore{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "word_store")),
	}
}

var _ store.WordStore = (*WordStore)(nil)

// WithTx implements store.WordStore.WithTx.
func (s *WordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &WordStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.WordStore.Create. The caller must wrap it in a
// transaction when translations or conjugations accompany the word.
func (s *WordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("hebrew", word.Hebrew))
		return err
	}

	if word.FetchedAt.IsZero() {
		word.FetchedAt = time.Now().UTC()
	}

	query := s.dialect.Rebind(`
		INSERT INTO cached_words
			(hebrew, normalized_hebrew, transcription, part_of_speech, root, binyan,
			 gender, singular_form, plural_form, masculine_form, feminine_form, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING word_id
	`)
	err := s.db.QueryRowContext(ctx, query,
		word.Hebrew,
		word.NormalizedHebrew,
		nullStr(word.Transcription),
		string(word.PartOfSpeech),
		nullStr(word.Root),
		nullStr(word.Binyan),
		nullStr(word.Gender),
		nullStr(word.SingularForm),
		nullStr(word.PluralForm),
		nullStr(word.MasculineForm),
		nullStr(word.FeminineForm),
		word.FetchedAt,
	).Scan(&word.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicate(mapped) {
			// Lost the (hebrew, part_of_speech) race; the caller re-reads
			// the winner.
			log.Debug("word insert lost uniqueness race",
				slog.String("hebrew", word.Hebrew),
				slog.String("part_of_speech", string(word.PartOfSpeech)))
		} else {
			log.Error("failed to create word",
				slog.String("error", err.Error()),
				slog.String("hebrew", word.Hebrew))
		}
		return mapped
	}

	if err := s.insertTranslations(ctx, word.ID, word.Translations); err != nil {
		return err
	}
	if err := s.insertConjugations(ctx, word.ID, word.Conjugations); err != nil {
		return err
	}

	log.Info("word cached",
		slog.Int64("word_id", word.ID),
		slog.String("hebrew", word.Hebrew),
		slog.String("part_of_speech", string(word.PartOfSpeech)),
		slog.Int("translations", len(word.Translations)),
		slog.Int("conjugations", len(word.Conjugations)))
	return nil
}

// GetByID implements store.WordStore.GetByID.
func (s *WordStore) GetByID(ctx context.Context, id int64) (*domain.Word, error) {
	query := s.dialect.Rebind(`
		SELECT word_id, hebrew, normalized_hebrew, transcription, part_of_speech,
		       root, binyan, gender, singular_form, plural_form,
		       masculine_form, feminine_form, fetched_at
		FROM cached_words
		WHERE word_id = ?
	`)

	word, err := s.scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFound(MapError(err)) {
			return nil, store.ErrWordNotFound
		}
		return nil, MapError(err)
	}

	if err := s.loadRelations(ctx, word); err != nil {
		return nil, err
	}
	return word, nil
}

// FindByNormalized implements store.WordStore.FindByNormalized. Lemma forms
// are matched first; conjugated verb forms are a fallback so an inflected
// lookup still finds its verb.
func (s *WordStore) FindByNormalized(
	ctx context.Context,
	normalized string,
	pos domain.PartOfSpeech,
) (*domain.Word, error) {
	id, err := s.lemmaID(ctx, normalized, pos)
	if err != nil && !store.IsNotFound(err) {
		return nil, err
	}

	if id == 0 {
		// No lemma match; try conjugated verb forms unless a non-verb part
		// of speech was requested.
		if pos == domain.PartOfSpeechAny || pos == domain.PartOfSpeechVerb {
			id, err = s.conjugationOwnerID(ctx, normalized)
		}
		if err != nil || id == 0 {
			if err == nil || store.IsNotFound(err) {
				return nil, store.ErrWordNotFound
			}
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

// ListPartsOfSpeech implements store.WordStore.ListPartsOfSpeech.
func (s *WordStore) ListPartsOfSpeech(
	ctx context.Context,
	normalized string,
) ([]domain.PartOfSpeech, error) {
	query := s.dialect.Rebind(`
		SELECT DISTINCT part_of_speech
		FROM cached_words
		WHERE normalized_hebrew = ?
		ORDER BY part_of_speech
	`)
	rows, err := s.db.QueryContext(ctx, query, normalized)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.PartOfSpeech
	for rows.Next() {
		var pos string
		if err := rows.Scan(&pos); err != nil {
			return nil, MapError(err)
		}
		out = append(out, domain.PartOfSpeech(pos))
	}
	return out, MapError(rows.Err())
}

// ReplaceTranslations implements store.WordStore.ReplaceTranslations.
func (s *WordStore) ReplaceTranslations(
	ctx context.Context,
	wordID int64,
	translations []domain.Translation,
) error {
	del := s.dialect.Rebind(`DELETE FROM translations WHERE word_id = ?`)
	if _, err := s.db.ExecContext(ctx, del, wordID); err != nil {
		return MapError(err)
	}
	return s.insertTranslations(ctx, wordID, translations)
}

// ReplaceConjugations implements store.WordStore.ReplaceConjugations.
func (s *WordStore) ReplaceConjugations(
	ctx context.Context,
	wordID int64,
	conjugations []domain.Conjugation,
) error {
	del := s.dialect.Rebind(`DELETE FROM verb_conjugations WHERE word_id = ?`)
	if _, err := s.db.ExecContext(ctx, del, wordID); err != nil {
		return MapError(err)
	}
	return s.insertConjugations(ctx, wordID, conjugations)
}

// Touch implements store.WordStore.Touch.
func (s *WordStore) Touch(ctx context.Context, wordID int64) error {
	query := s.dialect.Rebind(`UPDATE cached_words SET fetched_at = ? WHERE word_id = ?`)
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), wordID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// Delete implements store.WordStore.Delete. Dependents are removed
// explicitly rather than trusting the backend's cascade, so the behavior
// is identical on backends where foreign key enforcement may be off.
func (s *WordStore) Delete(ctx context.Context, id int64) error {
	for _, table := range []string{"user_dictionary", "verb_conjugations", "translations"} {
		query := s.dialect.Rebind(fmt.Sprintf("DELETE FROM %s WHERE word_id = ?", table))
		if _, err := s.db.ExecContext(ctx, query, id); err != nil {
			return MapError(err)
		}
	}

	query := s.dialect.Rebind(`DELETE FROM cached_words WHERE word_id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// lemmaID resolves a normalized form to a word id among lemma rows,
// returning store.ErrAmbiguous when several parts of speech match and none
// was requested.
func (s *WordStore) lemmaID(
	ctx context.Context,
	normalized string,
	pos domain.PartOfSpeech,
) (int64, error) {
	if pos != domain.PartOfSpeechAny {
		// Distinct spellings can normalize identically within one part of
		// speech; the lowest id wins, like every other tie-break here.
		query := s.dialect.Rebind(`
			SELECT word_id FROM cached_words
			WHERE normalized_hebrew = ? AND part_of_speech = ?
			ORDER BY word_id
			LIMIT 1
		`)
		var id int64
		err := s.db.QueryRowContext(ctx, query, normalized, string(pos)).Scan(&id)
		if err != nil {
			return 0, MapError(err)
		}
		return id, nil
	}

	query := s.dialect.Rebind(`
		SELECT word_id FROM cached_words
		WHERE normalized_hebrew = ?
		ORDER BY word_id
		LIMIT 2
	`)
	rows, err := s.db.QueryContext(ctx, query, normalized)
	if err != nil {
		return 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, MapError(err)
	}

	switch len(ids) {
	case 0:
		return 0, store.ErrWordNotFound
	case 1:
		return ids[0], nil
	default:
		return 0, store.ErrAmbiguous
	}
}

// conjugationOwnerID resolves a normalized inflected form to its verb.
func (s *WordStore) conjugationOwnerID(ctx context.Context, normalized string) (int64, error) {
	query := s.dialect.Rebind(`
		SELECT word_id FROM verb_conjugations
		WHERE normalized_hebrew_form = ?
		ORDER BY word_id
		LIMIT 1
	`)
	var id int64
	err := s.db.QueryRowContext(ctx, query, normalized).Scan(&id)
	if err != nil {
		return 0, MapError(err)
	}
	return id, nil
}

func (s *WordStore) insertTranslations(
	ctx context.Context,
	wordID int64,
	translations []domain.Translation,
) error {
	query := s.dialect.Rebind(`
		INSERT INTO translations (word_id, translation_text, context_comment, is_primary)
		VALUES (?, ?, ?, ?)
		RETURNING translation_id
	`)
	for i := range translations {
		t := &translations[i]
		if err := t.Validate(); err != nil {
			return err
		}
		t.WordID = wordID
		err := s.db.QueryRowContext(ctx, query,
			wordID, t.Text, nullStr(t.ContextComment), t.IsPrimary,
		).Scan(&t.ID)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

func (s *WordStore) insertConjugations(
	ctx context.Context,
	wordID int64,
	conjugations []domain.Conjugation,
) error {
	query := s.dialect.Rebind(`
		INSERT INTO verb_conjugations
			(word_id, tense, person, hebrew_form, normalized_hebrew_form, transcription)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	for i := range conjugations {
		c := &conjugations[i]
		if err := c.Validate(); err != nil {
			return err
		}
		c.WordID = wordID
		err := s.db.QueryRowContext(ctx, query,
			wordID, string(c.Tense), c.Person, c.HebrewForm, c.NormalizedForm,
			nullStr(c.Transcription),
		).Scan(&c.ID)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// scanWord reads one cached_words row.
func (s *WordStore) scanWord(row *sql.Row) (*domain.Word, error) {
	var w domain.Word
	var pos string
	var transcription, root, binyan, gender sql.NullString
	var singular, plural, masculine, feminine sql.NullString

	err := row.Scan(
		&w.ID, &w.Hebrew, &w.NormalizedHebrew, &transcription, &pos,
		&root, &binyan, &gender, &singular, &plural, &masculine, &feminine,
		&w.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	w.PartOfSpeech = domain.PartOfSpeech(pos)
	w.Transcription = strOrEmpty(transcription)
	w.Root = strOrEmpty(root)
	w.Binyan = strOrEmpty(binyan)
	w.Gender = strOrEmpty(gender)
	w.SingularForm = strOrEmpty(singular)
	w.PluralForm = strOrEmpty(plural)
	w.MasculineForm = strOrEmpty(masculine)
	w.FeminineForm = strOrEmpty(feminine)
	return &w, nil
}

// loadRelations populates translations and conjugations.
func (s *WordStore) loadRelations(ctx context.Context, word *domain.Word) error {
	tq := s.dialect.Rebind(`
		SELECT translation_id, word_id, translation_text, context_comment, is_primary
		FROM translations
		WHERE word_id = ?
		ORDER BY is_primary DESC, translation_id
	`)
	rows, err := s.db.QueryContext(ctx, tq, word.ID)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t domain.Translation
		var comment sql.NullString
		if err := rows.Scan(&t.ID, &t.WordID, &t.Text, &comment, &t.IsPrimary); err != nil {
			return MapError(err)
		}
		t.ContextComment = strOrEmpty(comment)
		word.Translations = append(word.Translations, t)
	}
	if err := rows.Err(); err != nil {
		return MapError(err)
	}

	cq := s.dialect.Rebind(`
		SELECT id, word_id, tense, person, hebrew_form, normalized_hebrew_form, transcription
		FROM verb_conjugations
		WHERE word_id = ?
		ORDER BY id
	`)
	crows, err := s.db.QueryContext(ctx, cq, word.ID)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = crows.Close() }()

	for crows.Next() {
		var c domain.Conjugation
		var tense string
		var transcription sql.NullString
		err := crows.Scan(&c.ID, &c.WordID, &tense, &c.Person, &c.HebrewForm,
			&c.NormalizedForm, &transcription)
		if err != nil {
			return MapError(err)
		}
		c.Tense = domain.Tense(tense)
		c.Transcription = strOrEmpty(transcription)
		word.Conjugations = append(word.Conjugations, c)
	}
	return MapError(crows.Err())
}
