package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/platform/logger"
)

const userAgent = "milon-api/1.0"

// HTTPProvider fetches word pages from the online dictionary.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider against the given dictionary base URL.
// timeout bounds the whole request including body read.
func NewHTTPProvider(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPProvider {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log.With(slog.String("component", "dictionary_provider")),
	}
}

// Fetch implements Provider. The dictionary keys entries by surface form;
// when pos is concrete and the page reports a different part of speech the
// lookup counts as a miss.
func (p *HTTPProvider) Fetch(
	ctx context.Context,
	surface string,
	pos domain.PartOfSpeech,
) (*WordInfo, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	reqURL := p.baseURL + "/dict/" + url.PathEscape(surface) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		log.Error("dictionary request failed",
			slog.String("url", reqURL),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debug("dictionary has no entry",
			slog.String("surface", surface))
		return nil, ErrWordNotFound
	case resp.StatusCode != http.StatusOK:
		log.Error("dictionary returned unexpected status",
			slog.String("url", reqURL),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}

	info, err := parsePage(doc)
	if err != nil {
		return nil, err
	}

	if pos != domain.PartOfSpeechAny && info.PartOfSpeech != pos {
		log.Debug("entry part of speech mismatch",
			slog.String("surface", surface),
			slog.String("requested", string(pos)),
			slog.String("found", string(info.PartOfSpeech)))
		return nil, ErrWordNotFound
	}

	log.Info("dictionary entry fetched",
		slog.String("surface", surface),
		slog.String("part_of_speech", string(info.PartOfSpeech)),
		slog.Int("translations", len(info.Translations)),
		slog.Int("conjugations", len(info.Conjugations)),
		slog.Duration("elapsed", time.Since(start)))
	return info, nil
}
