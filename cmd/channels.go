package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/pkg/config"
	"github.com/kamal-hamza/chanplot/pkg/ui"
)

var channelsCopy bool

var channelsCmd = &cobra.Command{
	Use:     "channels <guild-id>",
	Aliases: []string{"ls"},
	Short:   "List the channels of a guild",
	Long: `List every channel of a guild with its kind and whether it is tracked.

With --copy, a config destination for the guild listing all of its text
channels is copied to the clipboard, ready to paste into config.yaml.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runChannels,
}

func init() {
	channelsCmd.Flags().BoolVarP(&channelsCopy, "copy", "c", false, "copy a destination snippet to the clipboard")
}

func runChannels(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	guildID := args[0]

	client, err := newDiscordClient()
	if err != nil {
		return err
	}

	guild, err := client.Guild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("couldn't get guild %s: %w", guildID, err)
	}
	channels, err := client.Channels(ctx, guild.ID)
	if err != nil {
		return fmt.Errorf("couldn't get channels of %s: %w", guild.Name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatTitle(guild.Name+" : "+guild.ID))
	fmt.Fprintln(out)
	fmt.Fprint(out, channelTable(channels, trackedSet(appConfig, guild.ID)).Render())

	if !channelsCopy {
		return nil
	}

	snippet, err := destinationSnippet(guild.ID, channels)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := clipboard.WriteAll(snippet); err != nil {
		fmt.Fprintln(out, ui.FormatMuted("(Clipboard access failed)"))
		fmt.Fprint(out, snippet)
		return nil
	}
	fmt.Fprintln(out, ui.FormatSuccess("Destination copied to clipboard"))
	return nil
}

func trackedSet(cfg *config.Config, guildID string) map[string]bool {
	tracked := make(map[string]bool)
	if cfg == nil {
		return tracked
	}
	if dest, ok := cfg.Destination(guildID); ok {
		for _, name := range dest.ChannelsToTrack {
			tracked[name] = true
		}
	}
	return tracked
}

func channelTable(channels []domain.Channel, tracked map[string]bool) *ui.Table {
	tbl := ui.NewTable("Channel", "Kind", "Tracked", "ID")
	for _, c := range channels {
		mark := ""
		if tracked[c.Name] {
			mark = ui.StyleSuccess.Render(ui.IconSuccess)
		}
		name := "#" + c.Name
		if !c.IsTextBased() {
			name = ui.FormatMuted(name)
		}
		tbl.AddRow(name, string(c.Kind), mark, c.ID)
	}
	return tbl
}

// destinationSnippet renders a config destination tracking every text channel
func destinationSnippet(guildID string, channels []domain.Channel) (string, error) {
	dest := config.Destination{GuildID: guildID}
	for _, c := range channels {
		if c.IsTextBased() {
			dest.ChannelsToTrack = append(dest.ChannelsToTrack, c.Name)
		}
	}

	data, err := yaml.Marshal(struct {
		Destinations []config.Destination `yaml:"destinations"`
	}{[]config.Destination{dest}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal destination: %w", err)
	}
	return string(data), nil
}
