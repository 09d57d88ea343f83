package cmd

import (
	"errors"
	"fmt"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/services"
	"github.com/kamal-hamza/chanplot/pkg/ui"
)

var trackOutput string

var trackCmd = &cobra.Command{
	Use:   "track <guild-id>",
	Short: "Pick channels to track interactively",
	Long: `Open a fuzzy finder over the text channels of a guild and add the
selected ones to the guild's destination in the config file.
Use Tab to select several channels.

Examples:
  chanplot track 123456789012345678
  chanplot track 123456789012345678 --output stats`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackOutput, "output", "", "set the channel the charts are posted to")
}

func runTrack(cmd *cobra.Command, args []string) error {
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

	candidates := untrackedTextChannels(channels, trackedSet(appConfig, guild.ID))

	var picked []string
	if len(candidates) == 0 {
		fmt.Println(ui.FormatInfo("Every text channel of " + guild.Name + " is already tracked"))
	} else {
		idxs, err := fuzzyfinder.FindMulti(
			candidates,
			func(i int) string {
				return "#" + candidates[i].Name
			},
			fuzzyfinder.WithPromptString(guild.Name+" > "),
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				return channelPreview(candidates[i])
			}),
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				fmt.Println(ui.FormatInfo("Selection cancelled."))
				return nil
			}
			return err
		}
		for _, i := range idxs {
			picked = append(picked, candidates[i].Name)
		}
	}

	added := appConfig.Track(guild.ID, picked...)
	if trackOutput != "" {
		dest, _ := appConfig.Destination(guild.ID)
		dest.OutputChannelName = trackOutput
	}
	if len(added) == 0 && trackOutput == "" {
		return nil
	}

	if err := appConfig.Save(configPath); err != nil {
		return err
	}

	for _, name := range added {
		fmt.Println(ui.FormatSuccess("Tracking #" + name))
	}
	if trackOutput != "" {
		fmt.Println(ui.FormatSuccess("Posting charts to #" + trackOutput))
	}
	fmt.Println(ui.FormatMuted("Saved " + configPath))
	return nil
}

func untrackedTextChannels(channels []domain.Channel, tracked map[string]bool) []domain.Channel {
	var out []domain.Channel
	for _, c := range channels {
		if c.IsTextBased() && !tracked[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// channelPreview shows how a channel will be captioned and saved
func channelPreview(c domain.Channel) string {
	name := domain.DisplayName(c.Name)
	if name == "" {
		name = c.Name
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Channel: %s\n", ui.StyleBold.Render("#"+c.Name)))
	s.WriteString(fmt.Sprintf("Kind:    %s\n", c.Kind))
	s.WriteString(fmt.Sprintf("ID:      %s\n\n", c.ID))
	s.WriteString(ui.StyleHeader.Render("Charts") + "\n")
	for _, g := range []domain.Granularity{domain.Daily, domain.Weekly} {
		s.WriteString(fmt.Sprintf("%s %s\n", name, g.Title()))
		s.WriteString(ui.FormatMuted("  "+services.ChartPath(appConfig.OutputDir, name, g, ".png")) + "\n")
	}
	return s.String()
}
