package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"varta/internal/chat"
	"varta/internal/cli"
	"varta/internal/config"
	"varta/internal/function"
	"varta/internal/function/builtin"
	"varta/internal/hook"
	"varta/internal/hook/handlers"
	"varta/internal/india"
	"varta/internal/llm"
	llmopenai "varta/internal/llm/openai"
	"varta/internal/logger"
	"varta/internal/mcp"
)

var (
	configPath  string
	apiBaseURL  string
	apiKey      string
	model       string
	temperature float32
	maxTurns    int
	streamOut   bool
	verbose     bool
	noColor     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "varta",
		Short: "Varta AI SDK",
		Long:  "An Indian-context AI assistant SDK: chat, image generation, web search and local function calling",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to varta.yaml (default: standard locations)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", os.Getenv("OPENAI_API_BASE_URL"), "OpenAI-compatible API base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("OPENAI_API_KEY"), "API key")
	rootCmd.PersistentFlags().StringVar(&model, "model", "gpt-4-turbo", "Model to use")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	chatCmd := &cobra.Command{
		Use:   "chat [query]",
		Short: "Chat with the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat,
	}
	chatCmd.Flags().Float32Var(&temperature, "temperature", 0.7, "Temperature")
	chatCmd.Flags().IntVar(&maxTurns, "max-turns", 10, "Maximum conversation turns")
	chatCmd.Flags().BoolVar(&streamOut, "stream", false, "Stream the response as it arrives")

	imageCmd := &cobra.Command{
		Use:   "image [prompt]",
		Short: "Generate an image",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImage,
	}

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the web",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE:  runTools,
	}

	rootCmd.AddCommand(chatCmd, imageCmd, searchCmd, toolsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired-up SDK components.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	client     llm.Client
	registry   *function.Registry
	executor   *function.Executor
	enhancer   *india.Enhancer
	mcpManager *mcp.Manager
}

func buildApp(ctx context.Context) (*app, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadWithDefaults()
	}
	if err != nil {
		return nil, err
	}

	// Flags beat config file; config file beats nothing.
	if apiKey == "" {
		apiKey = cfg.API.Key
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key required (set OPENAI_API_KEY, use --api-key, or configure api.key)")
	}
	if apiBaseURL == "" {
		apiBaseURL = cfg.API.BaseURL
	}
	if cfg.API.Model != "" && model == "gpt-4-turbo" {
		model = cfg.API.Model
	}

	logLevel := logger.LevelInfo
	if verbose {
		logLevel = logger.LevelDebug
	}
	log := logger.NewLogger(os.Stdout, logLevel)
	if noColor {
		log.SetColorMode(false)
	}

	var opts []llmopenai.Option
	if cfg.API.ImageModel != "" {
		opts = append(opts, llmopenai.WithImageModel(cfg.API.ImageModel))
	}
	if cfg.API.SearchModel != "" {
		opts = append(opts, llmopenai.WithSearchModel(cfg.API.SearchModel))
	}
	client := llmopenai.NewClient(apiKey, model, apiBaseURL, opts...)

	enhancer := india.NewEnhancer(cfg.Region.Language, cfg.Region.City)

	registry := function.NewRegistry()
	if err := builtin.RegisterDefaults(registry, client, enhancer); err != nil {
		return nil, err
	}

	for _, name := range cfg.Tools.Disabled {
		registry.Disable(name)
	}
	for name, perMinute := range cfg.Tools.RateLimits {
		registry.SetRateLimit(name, perMinute)
	}

	executor := function.NewExecutor(registry)
	executor.SetLogger(log)

	if len(cfg.Tools.Confirm) > 0 {
		hooks := hook.NewManager()
		hooks.Register(handlers.NewDispatchConfirmHandler(cfg.Tools.Confirm...))
		executor.SetHookManager(hooks)
	}

	mcpManager := mcp.NewManager(registry)
	mcpManager.SetLogger(log)
	if err := mcpManager.Initialize(ctx, cfg.MCP); err != nil {
		// Even total MCP failure only degrades to local tools.
		log.Error("MCP initialization: %v", err)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		client:     client,
		registry:   registry,
		executor:   executor,
		enhancer:   enhancer,
		mcpManager: mcpManager,
	}, nil
}

func (a *app) close() {
	if a.mcpManager != nil {
		if err := a.mcpManager.Close(); err != nil {
			a.log.Debug("closing MCP servers: %v", err)
		}
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	session := chat.NewSession(a.client, a.registry, a.executor, a.enhancer, &chat.Config{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   4096,
		MaxTurns:    maxTurns,
	}, a.log)

	if streamOut {
		renderer := cli.NewStreamRenderer(os.Stdout)
		if noColor {
			renderer.SetColorMode(false)
		}
		// The renderer echoes the reply as it arrives.
		_, err := session.RunStream(ctx, args[0], renderer)
		return err
	}

	out, err := session.Run(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println(out.Reply)
	return nil
}

func runImage(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.client.GenerateImage(ctx, &llm.ImageRequest{
		Prompt: a.enhancer.EnhanceImagePrompt(args[0], "realistic"),
	})
	if err != nil {
		return err
	}

	for _, url := range resp.URLs {
		fmt.Println(url)
	}
	if resp.RevisedPrompt != "" {
		fmt.Printf("revised prompt: %s\n", resp.RevisedPrompt)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.client.WebSearch(ctx, &llm.SearchRequest{Query: args[0]})
	if err != nil {
		return err
	}

	for _, r := range resp.Results {
		fmt.Printf("%s\n  %s\n  %s\n", r.Title, r.Snippet, r.URL)
	}
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tENABLED\tRATE LIMIT\tUSES")
	for _, t := range a.registry.ListAll() {
		limit := "-"
		if t.RateLimit() > 0 {
			limit = fmt.Sprintf("%d/min", t.RateLimit())
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n",
			t.Name, t.Category, t.Enabled(), limit, t.UsageCount())
	}
	return w.Flush()
}
