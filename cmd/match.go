package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/secrets"
	"github.com/spigell/resume-matcher/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReport          = "Show report"
	PromptRecommendations = "Show recommendations for a job"
	PromptResultsToFile   = "Dump results to file"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReport, PromptRecommendations, PromptResultsToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match JOBS_FILE",
	Short: "Score a resume against the job postings from a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "plain text resume file")
	matchCmd.Flags().String("resume-id", "", "resume identifier used for stored results (default is the resume file name)")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse results and recommendations interactively")
	cobra.CheckErr(matchCmd.MarkFlagRequired("resume"))
}

// jobReport is what the command prints for every job.
type jobReport struct {
	*matching.MatchResult
	Recommendations *recommend.Set `json:"recommendations"`
}

// match is the main command for the cli.
func match(cmd *cobra.Command, jobsFile string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumeFile, _ := cmd.Flags().GetString("resume")
	resumeID, _ := cmd.Flags().GetString("resume-id")
	resume, err := jobs.LoadResume(resolveResumeID(resumeID, resumeFile), resumeFile)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	postings, err := jobs.LoadPostings(jobsFile)
	if err != nil {
		logger.Fatal("loading job postings", zap.Error(err))
	}

	logger.Info("loaded job postings", zap.Int("count", len(postings)), zap.String("resume_id", resume.ID))

	st, closeStore, err := newStore(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening match store", zap.Error(err), zap.String("driver", config.Store.Driver))
	}
	defer closeStore()

	judge, err := newJudge(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping ai judge, scores will use skill overlap only", zap.Error(err))
	}

	scorer := matching.NewScorer(judge, config.Match.JudgeTimeout, logger)
	orchestrator := matching.NewOrchestrator(scorer, st, matching.Config{
		Concurrency:    config.Match.Concurrency,
		JobTimeout:     config.Match.JobTimeout,
		PersistTimeout: config.Match.PersistTimeout,
	}, logger)

	results, err := orchestrator.MatchResumeAgainstJobs(ctx, resume, postings)
	if err != nil {
		logger.Fatal("matching resume against jobs", zap.Error(err))
	}

	results = matching.SortByScore(results)
	reports := buildReports(resume.Content, results, config.Recommend.SectionThreshold)

	logger.Info("matching finished", zap.Int("jobs", len(results)))

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		if err := printJSON(cmd, reports); err != nil {
			logger.Fatal("printing results", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(cmd, action, logger, results, reports); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(cmd *cobra.Command, action string, logger *zap.Logger, results []*matching.MatchResult, reports []jobReport) error {
	switch action {
	case PromptReport:
		return printJSON(cmd, scoreTable(results))
	case PromptRecommendations:
		return showRecommendations(cmd, reports)
	case PromptResultsToFile:
		filename, err := matching.DumpToTmpFile(results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showRecommendations(cmd *cobra.Command, reports []jobReport) error {
	if len(reports) == 0 {
		return nil
	}

	items := make([]string, 0, len(reports))
	for _, r := range reports {
		items = append(items, fmt.Sprintf("%s (%d)", r.JobID, r.MatchScore))
	}

	choose := promptui.Select{
		Label: "Job",
		Items: items,
	}
	idx, _, err := choose.Run()
	if err != nil {
		return fmt.Errorf("choose job: %w", err)
	}

	return printJSON(cmd, reports[idx].Recommendations)
}

// buildReports attaches recommendations to every result.
func buildReports(resumeText string, results []*matching.MatchResult, threshold float64) []jobReport {
	reports := make([]jobReport, 0, len(results))
	for _, result := range results {
		sections := recommend.AnalyzeSections(resumeText, result)
		reports = append(reports, jobReport{
			MatchResult:     result,
			Recommendations: recommend.Build(result, sections, threshold),
		})
	}
	return reports
}

type scoreLine struct {
	JobID   string          `json:"jobId"`
	Score   int             `json:"matchScore"`
	Source  matching.Source `json:"source"`
	Missing int             `json:"missingSkills"`
}

func scoreTable(results []*matching.MatchResult) []scoreLine {
	lines := make([]scoreLine, 0, len(results))
	for _, r := range results {
		lines = append(lines, scoreLine{
			JobID:   r.JobID,
			Score:   r.MatchScore,
			Source:  r.Source,
			Missing: len(r.MissingSkills),
		})
	}
	return lines
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveResumeID falls back to the resume file name without extension.
func resolveResumeID(id, file string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newStore(ctx context.Context, cfg *StoreConfig) (store.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return store.NewMemory(), func() {}, nil
	case "postgres":
		url, err := secrets.Load(secrets.Source{
			Name:  "database url",
			File:  cfg.DatabaseURLFile,
			Value: cfg.DatabaseURL,
			Env:   []string{"DATABASE_URL"},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set store.database-url-file or DATABASE_URL)", err)
		}

		pg, err := store.Connect(ctx, url, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

func newJudge(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Judge, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   []string{"GEMINI_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)),
	)
	if err != nil {
		return nil, err
	}

	return gemini.NewJudge(generator, logger, cfg.Gemini.MaxLogLength), nil
}

// redacted returns a copy of config safe to log.
func redacted(config *Config) *Config {
	if config == nil {
		return nil
	}
	c := *config
	if c.Store != nil && c.Store.DatabaseURL != "" {
		s := *c.Store
		s.DatabaseURL = "***"
		c.Store = &s
	}
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		a := *c.AI
		g := *a.Gemini
		g.APIKey = "***"
		a.Gemini = &g
		c.AI = &a
	}
	return &c
}
