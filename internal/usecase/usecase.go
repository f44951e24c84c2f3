package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/quickurl/internal/entity"
)

// defaultTTL is how long a record stays resolvable when the caller
// does not provide an explicit expiration time.
const defaultTTL = 30 * 24 * time.Hour

// maxRetries bounds how many colliding tokens are regenerated before
// the conflict is reported to the caller.
const maxRetries = 5

type urlRepository interface {
	Save(ctx context.Context, url *entity.URL) (*entity.URL, error)
	RetrieveByToken(ctx context.Context, token string) (*entity.URL, error)
	RetrieveAll(ctx context.Context) ([]entity.URL, error)
	IncrementClickCount(ctx context.Context, token string) (int64, error)
	RemoveByToken(ctx context.Context, token string) (int64, error)
}

type tokenGenerator interface {
	Generate() (string, error)
}

// ShortenURLInput carries the caller-supplied fields of a new record.
type ShortenURLInput struct {
	OriginalURL string
	Title       *string
	ExpiresAt   *time.Time
}

type URLUseCase struct {
	urlRepo  urlRepository
	tokenGen tokenGenerator
	baseURL  string
	now      func() time.Time
}

func New(urlRepo urlRepository, tokenGen tokenGenerator, baseURL string) *URLUseCase {
	return &URLUseCase{
		urlRepo:  urlRepo,
		tokenGen: tokenGen,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func (uc *URLUseCase) shortURL(token string) string {
	return uc.baseURL + "/" + token
}

func (uc *URLUseCase) ShortenURL(ctx context.Context, input ShortenURLInput) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	if !strings.HasPrefix(input.OriginalURL, "http://") && !strings.HasPrefix(input.OriginalURL, "https://") {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidURL)
	}

	createdAt := uc.now().UTC()

	expiresAt := createdAt.Add(defaultTTL)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}

	id := uuid.NewString()

	for i := 0; i < maxRetries; i++ {
		token, err := uc.tokenGen.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, &entity.URL{
			ID:          id,
			Token:       token,
			OriginalURL: input.OriginalURL,
			Title:       input.Title,
			CreatedAt:   createdAt,
			ExpiresAt:   expiresAt,
		})
		if err != nil {
			if errors.Is(err, entity.ErrTokenExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		url.ShortURL = uc.shortURL(url.Token)

		return url, nil
	}

	return nil, fmt.Errorf("%s: failed to generate unique token: %w", op, entity.ErrTokenExists)
}

// ResolveToken looks up a record for redirecting and counts the click.
// Expired records are refused without touching the counter.
func (uc *URLUseCase) ResolveToken(ctx context.Context, token string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveToken"

	url, err := uc.urlRepo.RetrieveByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve token: %w", op, err)
	}

	if url.Expired(uc.now()) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	rowsAffected, err := uc.urlRepo.IncrementClickCount(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	url.ClickCount++
	url.ShortURL = uc.shortURL(url.Token)

	return url, nil
}

// GetURLInfo returns record metadata without counting a click.
// Expired records are still returned.
func (uc *URLUseCase) GetURLInfo(ctx context.Context, token string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURLInfo"

	url, err := uc.urlRepo.RetrieveByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url info: %w", op, err)
	}

	url.ShortURL = uc.shortURL(url.Token)

	return url, nil
}

func (uc *URLUseCase) ListURLs(ctx context.Context) ([]entity.URL, error) {
	const op = "usecase.URLUseCase.ListURLs"

	urls, err := uc.urlRepo.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	for i := range urls {
		urls[i].ShortURL = uc.shortURL(urls[i].Token)
	}

	return urls, nil
}

func (uc *URLUseCase) DeleteURL(ctx context.Context, token string) error {
	const op = "usecase.URLUseCase.DeleteURL"

	rowsAffected, err := uc.urlRepo.RemoveByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}
