package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/chanplot/internal/adapters/plotter"
	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
	"github.com/kamal-hamza/chanplot/internal/core/services"
	"github.com/kamal-hamza/chanplot/pkg/config"
	"github.com/kamal-hamza/chanplot/pkg/ui"
)

var (
	reportYes       bool
	reportHTML      bool
	reportKeepGoing bool
	reportOutDir    string
	reportGuild     string
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"r"},
	Short:   "Chart attachment activity and post it to Discord",
	Long: `Walk the full history of every tracked channel, chart the attachments
posted per day and per week over the last three months, and post the charts
to each guild's output channel after a single confirmation.

Charts are written to the output directory as <channel>_daily.png and
<channel>_weekly.png. A missing tracked channel is skipped; a missing output
channel still produces charts but nothing is posted for that guild.

Examples:
  chanplot report
  chanplot report --yes --html
  chanplot report --guild 123456789012345678 --out charts`,
	SilenceUsage: true,
	RunE:         runReport,
}

func init() {
	reportCmd.Flags().BoolVarP(&reportYes, "yes", "y", false, "post without asking for confirmation")
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "also write interactive HTML charts")
	reportCmd.Flags().BoolVar(&reportKeepGoing, "keep-going", false, "skip channels and guilds that fail instead of aborting")
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", "", "chart output directory (default from config)")
	reportCmd.Flags().StringVarP(&reportGuild, "guild", "g", "", "only report on this guild")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	if err := appConfig.Validate(); err != nil {
		fmt.Println(ui.FormatError("Invalid configuration: " + configPath))
		return err
	}

	destinations, err := selectDestinations(appConfig, reportGuild)
	if err != nil {
		return err
	}

	loc, err := appConfig.Location()
	if err != nil {
		return err
	}

	client, err := newDiscordClient()
	if err != nil {
		return err
	}

	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("couldn't log in: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatSuccess(me+" is connected!"))

	var companions []ports.ChartWriter
	if reportHTML || appConfig.HTML {
		companions = append(companions, plotter.NewHTMLWriter())
	}

	progress := ui.NewSpinner(out)
	history := services.NewHistoryService(client, services.HistorySettings{
		Location:         loc,
		EmptyPageRetries: appConfig.EmptyPageRetries,
	}, logger)
	charts := services.NewChartService(plotter.NewPNGWriter(), progress, loc, time.Now, logger, companions...)

	outDir := appConfig.OutputDir
	if reportOutDir != "" {
		outDir = reportOutDir
	}

	run := &reportRun{
		reporter:  services.NewReportService(client, history, charts, progress, logger),
		publisher: services.NewPublishService(client, ui.NewPrompt(cmd.InOrStdin(), out), logger),
		out:       out,
		outDir:    appWorkspace.OutputPath(outDir),
		assumeYes: reportYes,
		keepGoing: reportKeepGoing || appConfig.KeepGoing,
	}

	return run.all(ctx, destinations)
}

// selectDestinations narrows the configured destinations to one guild when asked
func selectDestinations(cfg *config.Config, guildID string) ([]config.Destination, error) {
	if guildID == "" {
		return cfg.Destinations, nil
	}
	dest, ok := cfg.Destination(guildID)
	if !ok {
		return nil, fmt.Errorf("guild %s is not configured", guildID)
	}
	return []config.Destination{*dest}, nil
}

// reportRun carries one invocation of the report command across destinations
type reportRun struct {
	reporter  *services.ReportService
	publisher *services.PublishService
	out       io.Writer
	outDir    string
	assumeYes bool
	keepGoing bool
}

// all reports on every destination in order. Without keepGoing the first
// failing destination aborts the run.
func (r *reportRun) all(ctx context.Context, destinations []config.Destination) error {
	var failed int
	for _, dest := range destinations {
		if err := r.destination(ctx, dest); err != nil {
			if !r.keepGoing {
				return err
			}
			failed++
			fmt.Fprintln(r.out, ui.FormatError(err.Error()))
			logger.Error().Err(err).Str("guild", dest.GuildID).Msg("destination failed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d destinations failed", failed, len(destinations))
	}
	return nil
}

func (r *reportRun) destination(ctx context.Context, dest config.Destination) error {
	report, err := r.reporter.Build(ctx, services.ReportRequest{
		GuildID:           dest.GuildID,
		ChannelsToTrack:   dest.ChannelsToTrack,
		OutputChannelName: dest.OutputChannelName,
		OutputDir:         r.outDir,
		KeepGoing:         r.keepGoing,
	})
	if err != nil {
		return err
	}

	for _, skip := range report.Skipped {
		fmt.Fprintln(r.out, ui.FormatWarning("Skipped "+skip.String()))
	}
	for _, set := range report.Sets {
		fmt.Fprintln(r.out, ui.FormatChart(fmt.Sprintf("%s: %d of 2 charts", set.Name, chartsRendered(set))))
	}

	resp, err := r.publisher.Publish(ctx, services.PublishRequest{
		Report:    report,
		AssumeYes: r.assumeYes,
	})
	if err != nil {
		return err
	}

	switch {
	case resp.Reason != "":
		fmt.Fprintln(r.out, ui.FormatInfo("Not posting to "+report.Guild.Name+": "+resp.Reason))
	case !resp.Confirmed:
		fmt.Fprintln(r.out, ui.FormatMuted("Charts kept in "+r.outDir))
	default:
		fmt.Fprintln(r.out, ui.FormatSuccess(fmt.Sprintf("Posted %d chart sets in #%s", resp.Posted, report.OutputChannel.Name)))
	}
	return nil
}

func chartsRendered(set domain.ImageSet) int {
	n := 0
	if set.DailyErr == nil {
		n++
	}
	if set.WeeklyErr == nil {
		n++
	}
	return n
}
