package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/filex"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"gopkg.in/yaml.v3"
)

// ExportFileName is the name the downloaded itinerary gets.
const ExportFileName = "smart-voyage-itinerary.md"

// frontMatter is the YAML header of an exported itinerary.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Destination string    `yaml:"destination"`
	Origin      string    `yaml:"origin,omitempty"`
	Date        string    `yaml:"date,omitempty"`
	Travelers   string    `yaml:"travelers,omitempty"`
	Budget      string    `yaml:"budget,omitempty"`
	Interests   []string  `yaml:"interests,omitempty"`
	ExportedAt  time.Time `yaml:"exported_at"`
}

// RenderMarkdown lays the itinerary out as a markdown document with a YAML
// front-matter block describing the trip.
func RenderMarkdown(itinerary string, form models.JourneyForm, exportedAt time.Time) ([]byte, error) {
	dest := strings.TrimSpace(form.Destination)
	if dest == "" {
		dest = models.UnknownDestination
	}

	fm := frontMatter{
		Title:       "Smart Voyage itinerary: " + dest,
		Destination: dest,
		Origin:      form.Origin,
		Date:        form.Date,
		Travelers:   form.Travelers,
		Budget:      form.Budget,
		Interests:   form.Interests,
		ExportedAt:  exportedAt.UTC(),
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("error encoding front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(itinerary))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ExportService writes itineraries to the export directory.
type ExportService interface {
	Export(ctx context.Context, itinerary string, form models.JourneyForm) (string, error)
}

type exportService struct {
	dir string
	log logging.Logger
	now func() time.Time
}

func NewExportService(dir string, log logging.Logger) ExportService {
	return &exportService{dir: dir, log: log.With("module", "export"), now: time.Now}
}

// Export returns the path written. An existing file is never overwritten.
func (s *exportService) Export(ctx context.Context, itinerary string, form models.JourneyForm) (string, error) {
	now := s.now()

	doc, err := RenderMarkdown(itinerary, form, now)
	if err != nil {
		return "", err
	}

	path, err := filex.WriteNew(s.dir, ExportFileName, doc, now)
	if err != nil {
		return "", fmt.Errorf("error writing itinerary: %w", err)
	}

	s.log.Info(ctx, "itinerary exported", "path", path)
	return path, nil
}
