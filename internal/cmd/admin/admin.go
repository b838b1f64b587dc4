// Package admin implements the registry administration command. It operates
// directly on the registry store and dispatches one subcommand per
// invocation.
package admin

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	contribdomain "github.com/medinex-ai/registry/internal/contribution/domain"
	contribservice "github.com/medinex-ai/registry/internal/contribution/service"
	"github.com/medinex-ai/registry/internal/identity"
	platformcmd "github.com/medinex-ai/registry/internal/platform/cmd"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
	regservice "github.com/medinex-ai/registry/internal/registry/service"
	"github.com/medinex-ai/registry/internal/storage/sqlite"
	tokendomain "github.com/medinex-ai/registry/internal/token/domain"
	tokenservice "github.com/medinex-ai/registry/internal/token/service"
	verifdomain "github.com/medinex-ai/registry/internal/verification/domain"
	verifservice "github.com/medinex-ai/registry/internal/verification/service"
)

// Config holds the admin command configuration.
type Config struct {
	// DBPath points at the registry SQLite database.
	DBPath string `env:"MEDINEX_DB_PATH" envDefault:"registry.db"`
	// Caller identifies the acting participant for authorized operations.
	Caller string `env:"MEDINEX_CALLER"`
	// Token carries a signed caller token; it takes precedence over Caller.
	Token string `env:"MEDINEX_TOKEN"`
	// JWTSigningKey verifies caller tokens.
	JWTSigningKey string `env:"MEDINEX_JWT_KEY"`
}

// ParseConfig loads environment defaults and parses global flags, returning
// the remaining subcommand arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, nil, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "registry database path")
	fs.StringVar(&cfg.Caller, "caller", cfg.Caller, "acting participant id")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Run executes one admin subcommand against the registry store.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand is required (try: list-models, token-show)")
	}

	caller, err := resolveCaller(cfg)
	if err != nil {
		return err
	}
	if !caller.IsZero() {
		ctx = requestctx.WithCaller(ctx, caller)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	app := &application{
		models:        regservice.NewModelService(store),
		contributions: contribservice.NewContributionService(store),
		verifications: verifservice.NewVerificationService(store),
		tokens:        tokenservice.NewTokenService(store),
		out:           out,
	}
	return app.dispatch(ctx, args[0], args[1:])
}

func resolveCaller(cfg Config) (identity.ID, error) {
	if strings.TrimSpace(cfg.Token) != "" {
		if cfg.JWTSigningKey == "" {
			return "", fmt.Errorf("jwt signing key is required to verify tokens")
		}
		return identity.FromToken(cfg.Token, []byte(cfg.JWTSigningKey))
	}
	return identity.ID(strings.TrimSpace(cfg.Caller)), nil
}

type application struct {
	models        *regservice.ModelService
	contributions *contribservice.ContributionService
	verifications *verifservice.VerificationService
	tokens        *tokenservice.TokenService
	out           io.Writer
}

func (a *application) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register-model":
		return a.registerModel(ctx, args)
	case "derive-model":
		return a.deriveModel(ctx, args)
	case "update-model":
		return a.updateModel(ctx, args)
	case "verify-model":
		return a.verifyModel(ctx, args)
	case "record-usage":
		return a.recordUsage(ctx, args)
	case "get-model":
		return a.getModel(ctx, args)
	case "list-models":
		return a.listModels(ctx, args)
	case "record-contribution":
		return a.recordContribution(ctx, args)
	case "review-contribution":
		return a.reviewContribution(ctx, args)
	case "approve-contribution":
		return a.approveContribution(ctx, args)
	case "reject-contribution":
		return a.rejectContribution(ctx, args)
	case "list-contributions":
		return a.listContributions(ctx, args)
	case "verify-data":
		return a.verify(ctx, args, a.verifications.VerifyMedicalData)
	case "verify-analysis":
		return a.verify(ctx, args, a.verifications.VerifyAnalysisResult)
	case "verify-output":
		return a.verify(ctx, args, a.verifications.VerifyModelOutput)
	case "expert-review":
		return a.verify(ctx, args, a.verifications.RecordExpertReview)
	case "list-verifications":
		return a.listVerifications(ctx, args)
	case "token-init":
		return a.tokenInit(ctx, args)
	case "token-propose":
		return a.tokenPropose(ctx, args)
	case "token-accept":
		return a.tokenAccept(ctx)
	case "token-cancel":
		return a.tokenCancel(ctx)
	case "token-mint":
		return a.tokenMint(ctx, args)
	case "token-treasury":
		return a.tokenTreasury(ctx, args)
	case "token-show":
		return a.tokenShow(ctx)
	case "balance":
		return a.balance(ctx, args)
	default:
		return fmt.Errorf("unknown subcommand %q", command)
	}
}

func (a *application) print(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (a *application) registerModel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register-model", flag.ContinueOnError)
	var input regdomain.RegisterModelInput
	fs.StringVar(&input.Name, "name", "", "model name")
	fs.StringVar(&input.Description, "description", "", "model description")
	fs.StringVar(&input.Version, "version", "", "model version")
	fs.StringVar(&input.ModelType, "type", "", "model type")
	fs.StringVar(&input.ModelHash, "hash", "", "model content hash")
	fs.Float64Var(&input.Accuracy, "accuracy", 0, "initial accuracy")
	fs.StringVar(&input.PerformanceMetrics, "metrics", "", "performance metrics blob")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, err := a.models.Register(ctx, input)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) deriveModel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("derive-model", flag.ContinueOnError)
	var input regdomain.RegisterModelInput
	parent := fs.String("parent", "", "parent model id")
	fs.StringVar(&input.Name, "name", "", "model name")
	fs.StringVar(&input.Description, "description", "", "model description")
	fs.StringVar(&input.Version, "version", "", "model version")
	fs.StringVar(&input.ModelType, "type", "", "model type")
	fs.StringVar(&input.ModelHash, "hash", "", "model content hash")
	fs.Float64Var(&input.Accuracy, "accuracy", 0, "initial accuracy")
	fs.StringVar(&input.PerformanceMetrics, "metrics", "", "performance metrics blob")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, err := a.models.Derive(ctx, *parent, input)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) updateModel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-model", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id")
	name := fs.String("name", "", "model name")
	description := fs.String("description", "", "model description")
	version := fs.String("version", "", "model version")
	hash := fs.String("hash", "", "model content hash")
	accuracy := fs.Float64("accuracy", 0, "accuracy")
	metrics := fs.String("metrics", "", "performance metrics blob")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var input regdomain.UpdateModelInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			input.Name = name
		case "description":
			input.Description = description
		case "version":
			input.Version = version
		case "hash":
			input.ModelHash = hash
		case "accuracy":
			input.Accuracy = accuracy
		case "metrics":
			input.PerformanceMetrics = metrics
		}
	})
	model, err := a.models.Update(ctx, *modelID, input)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) verifyModel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-model", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, err := a.models.Verify(ctx, *modelID)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) recordUsage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record-usage", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id")
	confidence := fs.Float64("confidence", 0, "confidence score")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, err := a.models.RecordUsage(ctx, *modelID, *confidence)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) getModel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get-model", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, err := a.models.Get(ctx, *modelID)
	if err != nil {
		return err
	}
	return a.print(model)
}

func (a *application) listModels(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-models", flag.ContinueOnError)
	pageSize := fs.Int("page-size", 0, "page size")
	pageToken := fs.String("page-token", "", "page token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	page, err := a.models.List(ctx, *pageSize, *pageToken)
	if err != nil {
		return err
	}
	return a.print(page)
}

func (a *application) recordContribution(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("record-contribution", flag.ContinueOnError)
	var input contribdomain.RecordContributionInput
	fs.StringVar(&input.ModelID, "model", "", "target model id")
	fs.StringVar(&input.Description, "description", "", "contribution description")
	fs.StringVar(&input.ContributionType, "type", "", "contribution type")
	fs.Float64Var(&input.AccuracyImprovement, "improvement", 0, "accuracy improvement")
	fs.StringVar(&input.PerformanceImprovement, "performance", "", "performance improvement blob")
	fs.StringVar(&input.ContributionHash, "hash", "", "contribution content hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contribution, err := a.contributions.Record(ctx, input)
	if err != nil {
		return err
	}
	return a.print(contribution)
}

func (a *application) reviewContribution(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review-contribution", flag.ContinueOnError)
	contributionID := fs.String("contribution", "", "contribution id")
	notes := fs.String("notes", "", "review notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contribution, err := a.contributions.Review(ctx, *contributionID, *notes)
	if err != nil {
		return err
	}
	return a.print(contribution)
}

func (a *application) approveContribution(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("approve-contribution", flag.ContinueOnError)
	contributionID := fs.String("contribution", "", "contribution id")
	reward := fs.Uint64("reward", 0, "reward amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contribution, err := a.contributions.Approve(ctx, *contributionID, *reward)
	if err != nil {
		return err
	}
	return a.print(contribution)
}

func (a *application) rejectContribution(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reject-contribution", flag.ContinueOnError)
	contributionID := fs.String("contribution", "", "contribution id")
	reason := fs.String("reason", "", "rejection reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contribution, err := a.contributions.Reject(ctx, *contributionID, *reason)
	if err != nil {
		return err
	}
	return a.print(contribution)
}

func (a *application) listContributions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-contributions", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id")
	pageSize := fs.Int("page-size", 0, "page size")
	pageToken := fs.String("page-token", "", "page token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	page, err := a.contributions.ListByModel(ctx, *modelID, *pageSize, *pageToken)
	if err != nil {
		return err
	}
	return a.print(page)
}

func (a *application) verify(ctx context.Context, args []string, record func(context.Context, verifservice.VerifyDataInput) (verifdomain.Verification, error)) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var input verifservice.VerifyDataInput
	fs.StringVar(&input.DataHash, "hash", "", "verified content hash")
	fs.StringVar(&input.Method, "method", "", "verification method")
	fs.Float64Var(&input.ConfidenceScore, "confidence", 0, "confidence score")
	fs.BoolVar(&input.IsValid, "valid", false, "verification outcome")
	fs.StringVar(&input.ModelID, "model", "", "model id")
	fs.StringVar(&input.ResultDetails, "details", "", "result details blob")
	fs.StringVar(&input.Metadata, "metadata", "", "metadata blob")
	fs.StringVar(&input.EvidenceURI, "evidence", "", "evidence URI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	verification, err := record(ctx, input)
	if err != nil {
		return err
	}
	return a.print(verification)
}

func (a *application) listVerifications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list-verifications", flag.ContinueOnError)
	modelID := fs.String("model", "", "model id filter")
	pageSize := fs.Int("page-size", 0, "page size")
	pageToken := fs.String("page-token", "", "page token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	page, err := a.verifications.List(ctx, *modelID, *pageSize, *pageToken)
	if err != nil {
		return err
	}
	return a.print(page)
}

func (a *application) tokenInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("token-init", flag.ContinueOnError)
	var input tokendomain.InitializeTokenInput
	decimals := fs.Uint("decimals", 0, "token decimals")
	fs.StringVar(&input.Name, "name", "", "token name")
	fs.StringVar(&input.Symbol, "symbol", "", "token symbol")
	fs.StringVar(&input.URI, "uri", "", "token metadata URI")
	fs.Uint64Var(&input.InitialSupply, "supply", 0, "initial supply")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input.Decimals = uint8(*decimals)
	cfg, err := a.tokens.Initialize(ctx, input)
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenPropose(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("token-propose", flag.ContinueOnError)
	newAuthority := fs.String("new-authority", "", "proposed authority id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := a.tokens.ProposeAuthorityTransfer(ctx, identity.ID(*newAuthority))
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenAccept(ctx context.Context) error {
	cfg, err := a.tokens.AcceptAuthorityTransfer(ctx)
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenCancel(ctx context.Context) error {
	cfg, err := a.tokens.CancelAuthorityTransfer(ctx)
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenMint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("token-mint", flag.ContinueOnError)
	amount := fs.Uint64("amount", 0, "mint amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := a.tokens.Mint(ctx, *amount)
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenTreasury(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("token-treasury", flag.ContinueOnError)
	treasury := fs.String("treasury", "", "treasury account id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := a.tokens.SetTreasury(ctx, identity.ID(*treasury))
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) tokenShow(ctx context.Context) error {
	cfg, err := a.tokens.Get(ctx)
	if err != nil {
		return err
	}
	return a.print(cfg)
}

func (a *application) balance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	account := fs.String("account", "", "account id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	balance, err := a.tokens.Balance(ctx, identity.ID(*account))
	if err != nil {
		return err
	}
	return a.print(map[string]any{"account": *account, "balance": balance})
}
