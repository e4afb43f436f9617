package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/internal/config"
	"github.com/gravitas-games/aftermath/internal/events"
	"github.com/gravitas-games/aftermath/internal/game"
	"github.com/gravitas-games/aftermath/internal/journal"
	"github.com/gravitas-games/aftermath/internal/logger"
	"github.com/gravitas-games/aftermath/internal/scenario"
	"github.com/gravitas-games/aftermath/pkg/models"
)

var (
	configPath   string
	modPath      string
	scenarioPath string
	turns        int
	dumpYAML     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aftermath",
		Short: "Aftermath economic core simulator",
		Long: `Loads a content catalog and plays scripted scenarios through the
player ledger, industry, transport network and research queue.`,
		SilenceUsage: true,
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./configs/aftermath.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&modPath, "mod", "m", "", "Path to mod file (overrides config)")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every type in the mod",
		RunE:  runCatalog,
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the mod against the schema and print its digest",
		RunE:  runValidate,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a scenario and print each player's ledger",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "./configs/scenarios/sample.yaml", "Path to scenario file")
	simulateCmd.Flags().IntVarP(&turns, "turns", "t", 0, "Turns to play (default: scenario, then config)")
	simulateCmd.Flags().BoolVar(&dumpYAML, "yaml", false, "Print reports as YAML instead of tables")

	rootCmd.AddCommand(catalogCmd, validateCmd, simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func setup(validate bool) (*config.Config, *slog.Logger, *catalog.Catalog, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if modPath != "" {
		cfg.Mod.Path = modPath
	}
	log := logger.Init(cfg.Log)
	cat, err := catalog.Load(cfg.Mod.Path, catalog.LoadOptions{ValidateSchema: validate || cfg.Mod.ValidateSchema})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load mod %s: %w", cfg.Mod.Path, err)
	}
	log.Info("Mod loaded", "path", cfg.Mod.Path, "types", cat.Len(), "digest", cat.Digest())
	return cfg, log, cat, nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	_, _, cat, err := setup(false)
	if err != nil {
		return err
	}

	settings := cat.Settings()
	color.New(color.FgCyan, color.Bold).Printf("\n%s (start %d, +%d per turn, %d bids)\n\n",
		settings.Name, settings.StartDate, settings.DatePerTurn, settings.MaxBids)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Key", "Kind", "Name", "Levels", "Labor", "Domain", "Formulas"}),
	)
	for _, e := range cat.Export() {
		_ = table.Append([]string{
			strconv.Itoa(int(e.ID)),
			e.Key,
			e.Kind,
			e.Name,
			blankZero(e.Levels),
			blankZero(e.Labor),
			domain(e),
			strings.Join(e.Formulas, ", "),
		})
	}
	return table.Render()
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, cat, err := setup(true)
	if err != nil {
		return err
	}
	color.New(color.FgGreen, color.Bold).Printf("✓ %s is valid\n", cfg.Mod.Path)
	fmt.Printf("   types:  %d\n", cat.Len())
	fmt.Printf("   digest: %s\n", cat.Digest())
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, log, cat, err := setup(false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	sink, err := journal.Open(ctx, cfg.Journal, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn("Failed to close journal", "error", err)
		}
	}()

	// Attached before setup so starting grants and spawns are journaled.
	bus := events.NewSimpleBus()
	rec := journal.NewRecorder(ctx, sink, game.NewCalendar(cat), log)
	rec.Attach(bus)

	g, err := s.Setup(cat, bus, log)
	if err != nil {
		return err
	}
	rec.SetCalendar(g.Calendar())

	n := turns
	if n == 0 {
		n = s.Turns
	}
	if n == 0 {
		n = cfg.Game.Turns
	}

	res, err := s.Run(ctx, g, n, log)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Printf("\n✓ %s: %d turns, %d orders applied, %d rejected\n",
		s.Name, res.Turns, res.Applied, res.Rejected)
	if cfg.Journal.Driver != config.DriverNone {
		color.New(color.FgYellow).Printf("   journal (%s): %d entries, %d failed\n", cfg.Journal.Driver, rec.Written(), rec.Failures())
	}
	fmt.Println()

	reports := g.Reports()
	if dumpYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if err := printReport(r); err != nil {
			return err
		}
	}
	return nil
}

func printReport(r models.PlayerReport) error {
	title := color.New(color.FgCyan, color.Bold)
	title.Printf("%s", r.Name)
	if r.Nation != "" {
		title.Printf(" (%s)", r.Nation)
	}
	title.Printf(" turn %d, %d\n", r.Turn, r.Date)

	moneyColor := color.New(color.FgGreen)
	if r.IsBankrupt() {
		moneyColor = color.New(color.FgRed, color.Bold)
	}
	moneyColor.Printf("   money %d", r.Money)
	fmt.Printf("   labor %d/%d (%.0f%%)   capacity %d   merchant marine %d   specialists %d\n",
		r.AllocatedLabor, r.MaxLabor, r.LaborUsage()*100, r.Capacity, r.MerchantMarine, r.Specialists)
	if len(r.Technology) > 0 {
		fmt.Printf("   technology: %s\n", strings.Join(r.Technology, ", "))
	}
	if len(r.Research) > 0 {
		fmt.Printf("   researching: %s\n", strings.Join(r.Research, ", "))
	}
	if len(r.Bidding) > 0 {
		fmt.Printf("   bidding: %s\n", strings.Join(r.Bidding, ", "))
	}

	goods := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Good", "Stockpile", "Transporting", "Trading"}),
	)
	for _, key := range keys(r.Stockpile, r.Transporting, r.Trading) {
		_ = goods.Append([]string{
			key,
			strconv.Itoa(r.Stockpile[key]),
			blankZero(r.Transporting[key]),
			blankZero(r.Trading[key]),
		})
	}
	if err := goods.Render(); err != nil {
		return err
	}

	if len(r.Centers) > 0 {
		centers := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"#", "Center", "Level", "Upgrading", "Producing"}),
		)
		for i, c := range r.Centers {
			_ = centers.Append([]string{
				strconv.Itoa(i),
				c.Type,
				strconv.Itoa(c.Level),
				yesNo(c.Upgrading),
				formatCounts(c.Producing),
			})
		}
		if err := centers.Render(); err != nil {
			return err
		}
	}

	if len(r.Units) > 0 {
		units := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Unit", "Group", "Level", "Toughness", "Upgrading"}),
		)
		for _, u := range r.Units {
			_ = units.Append([]string{u.Type, u.Group, strconv.Itoa(u.Level), strconv.Itoa(u.Toughness), yesNo(u.Upgrading)})
		}
		if err := units.Render(); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

func keys(maps ...map[string]int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

func formatCounts(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for _, k := range keys(m) {
		parts = append(parts, fmt.Sprintf("%s×%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func domain(e models.CatalogEntry) string {
	switch {
	case e.Land && e.Sea:
		return "land+sea"
	case e.Land:
		return "land"
	case e.Sea:
		return "sea"
	}
	return ""
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
