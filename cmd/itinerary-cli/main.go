// Command itinerary-cli renders a trip's prompt from a YAML fixture of survey
// answers, or formats a saved generator response for the terminal and PDF.
//
//	itinerary-cli -fixture trip.yaml
//	itinerary-cli -fixture trip.yaml -response reply.txt -pdf plan.pdf
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"GO2GETHER_PLANNER/internal/config"
	"GO2GETHER_PLANNER/internal/itinerary"
	"GO2GETHER_PLANNER/internal/logging"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/prompt"
)

type fixture struct {
	Name        string          `yaml:"name"`
	Destination string          `yaml:"destination"`
	StartDate   string          `yaml:"start_date"`
	EndDate     string          `yaml:"end_date"`
	Surveys     []fixtureSurvey `yaml:"surveys"`
}

type fixtureSurvey struct {
	Experiences     []string          `yaml:"experiences"`
	Cuisines        []string          `yaml:"cuisines"`
	FoodExperiences []string          `yaml:"food_experiences"`
	PreferredStart  *models.TimeOfDay `yaml:"preferred_start"`
	PreferredEnd    *models.TimeOfDay `yaml:"preferred_end"`
	Blocked         []fixtureRange    `yaml:"blocked"`
}

type fixtureRange struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

func main() {
	var (
		fixturePath  = flag.String("fixture", "", "YAML trip fixture with survey answers")
		responsePath = flag.String("response", "", "generator response to format instead of printing the prompt (- for stdin)")
		pdfPath      = flag.String("pdf", "", "also write the formatted itinerary to this PDF file")
		structured   = flag.Bool("structured", false, "ask for and accept JSON itineraries")
		maxBytes     = flag.Int("max-bytes", prompt.DefaultMaxBytes, "prompt size limit in bytes")
		logLevel     = flag.String("log-level", "warn", "debug, info, warn or error")
	)
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, config.LogConfig{Level: *logLevel, Format: "text"})

	if err := run(*fixturePath, *responsePath, *pdfPath, *structured, *maxBytes, logger); err != nil {
		fmt.Fprintln(os.Stderr, "itinerary-cli:", err)
		os.Exit(1)
	}
}

func run(fixturePath, responsePath, pdfPath string, structured bool, maxBytes int, logger *slog.Logger) error {
	if fixturePath == "" && responsePath == "" {
		flag.Usage()
		return fmt.Errorf("-fixture or -response is required")
	}

	var fx *fixture
	if fixturePath != "" {
		var err error
		if fx, err = loadFixture(fixturePath); err != nil {
			return err
		}
	}

	if responsePath == "" {
		return printPrompt(fx, structured, maxBytes, logger)
	}

	raw, err := readResponse(responsePath)
	if err != nil {
		return err
	}

	doc := itinerary.Format(raw)
	if structured {
		parsed, ok := itinerary.ParseStructured(raw)
		if ok {
			doc = parsed
		} else {
			logger.Warn("response is not a valid structured itinerary, formatting as text")
		}
	}
	if doc.Empty() {
		return fmt.Errorf("response produced an empty itinerary")
	}
	fmt.Println(itinerary.RenderTerminal(doc))

	if pdfPath == "" {
		return nil
	}
	opts := itinerary.PDFOptions{Title: "Trip itinerary"}
	if fx != nil {
		opts.Title = fx.Name
		opts.Subtitle = fmt.Sprintf("%s, %s to %s", fx.Destination, fx.StartDate, fx.EndDate)
	}
	f, err := os.Create(pdfPath)
	if err != nil {
		return err
	}
	if err := itinerary.WritePDF(f, doc, opts); err != nil {
		f.Close()
		return err
	}
	logger.Info("pdf written", "path", pdfPath)
	return f.Close()
}

func printPrompt(fx *fixture, structured bool, maxBytes int, logger *slog.Logger) error {
	start, err := time.Parse(time.DateOnly, fx.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, fx.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}

	tripID := uuid.New()
	responses := make([]models.SurveyResponse, 0, len(fx.Surveys))
	for _, s := range fx.Surveys {
		blocked := make([]models.TimeRange, 0, len(s.Blocked))
		for _, b := range s.Blocked {
			blocked = append(blocked, models.TimeRange{Start: b.Start, End: b.End})
		}
		responses = append(responses, models.SurveyResponse{
			TripID:          tripID,
			UserID:          uuid.New(),
			Experiences:     s.Experiences,
			Cuisines:        s.Cuisines,
			FoodExperiences: s.FoodExperiences,
			PreferredStart:  s.PreferredStart,
			PreferredEnd:    s.PreferredEnd,
			Blocked:         blocked,
		})
	}

	p, err := prompt.FromSurveys(responses, prompt.TripInfo{
		Destination: fx.Destination,
		Start:       start,
		End:         end,
	}, prompt.Options{MaxBytes: maxBytes, Structured: structured})
	if err != nil {
		return err
	}
	if p.Truncated {
		logger.Warn("prompt truncated", "omitted_blocked", p.OmittedBlocked, "bytes", len(p.Text))
	}
	fmt.Println(p.Text)
	return nil
}

func loadFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if fx.Destination == "" || fx.StartDate == "" || fx.EndDate == "" {
		return nil, fmt.Errorf("%s: destination, start_date and end_date are required", path)
	}
	return &fx, nil
}

func readResponse(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
