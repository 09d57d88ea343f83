package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
	"github.com/kamal-hamza/chanplot/pkg/config"
	"github.com/kamal-hamza/chanplot/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your chanplot setup",
	Long: `Diagnose issues with your chanplot setup.

Checks for:
  - Configuration file and token
  - Bot login
  - Guild access, output channel and tracked channels per destination
  - A writable output directory`,
	Run: runDoctor,
}

// doctorCheck is the outcome of a single diagnostic
type doctorCheck struct {
	Name string
	Err  error
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx, stop := getContext()
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatTitle("chanplot doctor"))
	fmt.Fprintln(out)

	checkStep(out, "Configuration File", func() error {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", configPath)
		}
		return nil
	})
	checkStep(out, "Configuration", appConfig.Validate)
	checkStep(out, "Output Directory", func() error {
		return checkWritable(appWorkspace.OutputPath(appConfig.OutputDir))
	})

	if _, err := appConfig.ResolveToken(); err != nil {
		checkStep(out, "Bot Token", func() error { return err })
		return
	}

	client, err := newDiscordClient()
	if err == nil {
		var me string
		me, err = client.Me(ctx)
		if err == nil {
			fmt.Fprintln(out, ui.FormatInfo("Logged in as "+me))
		}
	}
	checkStep(out, "Bot Login", func() error { return err })
	if err != nil {
		return
	}

	for _, dest := range appConfig.Destinations {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.FormatInfo("Checking guild "+dest.GuildID+"..."))
		for _, c := range destinationChecks(ctx, client, dest) {
			checkStep(out, c.Name, func() error { return c.Err })
		}
	}
}

// destinationChecks verifies that a destination can be reported and published
func destinationChecks(ctx context.Context, directory ports.ChannelDirectory, dest config.Destination) []doctorCheck {
	guild, err := directory.Guild(ctx, dest.GuildID)
	if err != nil {
		return []doctorCheck{{Name: "Guild Access", Err: err}}
	}
	checks := []doctorCheck{{Name: "Guild Access (" + guild.Name + ")"}}

	channels, err := directory.Channels(ctx, guild.ID)
	if err != nil {
		return append(checks, doctorCheck{Name: "Channel List", Err: err})
	}

	check := doctorCheck{Name: "Output Channel #" + dest.OutputChannelName}
	if _, ok := domain.FindChannel(channels, dest.OutputChannelName); !ok {
		check.Err = domain.ErrOutputChannelNotFound
	}
	checks = append(checks, check)

	for _, name := range dest.ChannelsToTrack {
		check := doctorCheck{Name: "Tracked Channel #" + name}
		channel, ok := domain.FindChannel(channels, name)
		switch {
		case !ok:
			check.Err = domain.ErrChannelNotFound
		case !channel.IsTextBased():
			check.Err = domain.ErrNotTextBased
		}
		checks = append(checks, check)
	}
	return checks
}

// checkWritable creates dir if needed and verifies a file can be written in it
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".chanplot-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}

// checkStep runs a check function and prints the result nicely
func checkStep(out io.Writer, name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Fprintf(out, "%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Fprintf(out, "%s %s\n", ui.FormatError("✘"), name)
		fmt.Fprintf(out, "    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
