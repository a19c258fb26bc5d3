package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/core/resolver"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Reasons a structured parse produces no result.
var (
	ErrMissingSection = errors.New("required section missing")
	ErrNoClient       = errors.New("client name not found")
	ErrNoProducts     = errors.New("no product resolved")
	ErrNoContact      = errors.New("phone or email missing")
)

// Structured parses tagged messages, falling back to per-line classification
// when the message carries no tags at all.
type Structured struct {
	Logger *slog.Logger
}

func NewStructured(logger *slog.Logger) *Structured {
	if logger == nil {
		logger = slog.Default()
	}
	return &Structured{Logger: logger}
}

// Extract returns a complete order or nil with the reason. Partial orders are never returned.
func (s *Structured) Extract(text string, r *resolver.Resolver) (*entity.OrderExtraction, error) {
	sections := ParseSections(text)
	heuristic := false
	if len(sections) == 0 {
		sections = ClassifyLines(text)
		heuristic = true
	}
	s.Logger.Debug("extract.structured.sections",
		"heuristic", heuristic,
		"found", len(sections),
	)

	if missing := sections.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingSection, missing)
	}

	name, id, ok := ParseClient(sections[constants.SectionClient])
	if !ok {
		return nil, ErrNoClient
	}

	items := ParseProducts(sections[constants.SectionProducts], r)
	if len(items) == 0 {
		return nil, ErrNoProducts
	}

	contact, ok := ParseContact(sections[constants.SectionContact])
	if !ok {
		return nil, ErrNoContact
	}

	birthday := ParseBirthday(text)
	if birthday == "" {
		birthday = ParseBirthdayBlock(sections[constants.SectionBirthday])
	}

	return &entity.OrderExtraction{
		ClientName: name,
		ClientID:   id,
		Contact:    contact,
		LineItems:  items,
		Birthday:   birthday,
		Notes:      sections[constants.SectionNotes],
		SourceTier: constants.TierStructured,
	}, nil
}
