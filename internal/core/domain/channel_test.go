package domain

import (
	"testing"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"🎨-fan-art", "Fan Art"},
		{"memes", "Memes"},
		{"tips-and-tricks", "Tips and Tricks"},
		{"the-best-of", "The Best Of"},
		{"  spaced--out  ", "Spaced Out"},
		{"📢-FAQ", "FAQ"},
		{"art-FAQ-and-tips", "Art FAQ and Tips"},
		{"NSFW-art", "NSFW Art"},
		{"3D-renders", "3D Renders"},
		{"🎨🎨", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Fan Art", "fan_art"},
		{"Tips and Tricks", "tips_and_tricks"},
		{"Memes", "memes"},
	}

	for _, tt := range tests {
		if got := FileStem(tt.input); got != tt.expected {
			t.Errorf("FileStem(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestChannel_IsTextBased(t *testing.T) {
	for kind, want := range map[ChannelKind]bool{
		ChannelText:     true,
		ChannelNews:     true,
		ChannelThread:   true,
		ChannelForum:    false,
		ChannelVoice:    false,
		ChannelCategory: false,
		ChannelOther:    false,
	} {
		if got := (Channel{Kind: kind}).IsTextBased(); got != want {
			t.Errorf("IsTextBased(%s) = %v, want %v", kind, got, want)
		}
	}
}

func TestFindChannel(t *testing.T) {
	channels := []Channel{{ID: "1", Name: "memes"}, {ID: "2", Name: "stats"}}

	if c, ok := FindChannel(channels, "stats"); !ok || c.ID != "2" {
		t.Errorf("FindChannel(stats) = %v, %v", c, ok)
	}
	if _, ok := FindChannel(channels, "missing"); ok {
		t.Error("expected missing channel not to be found")
	}
}

func TestReport_Publishable(t *testing.T) {
	out := &Channel{ID: "1", Name: "stats"}

	if (&Report{OutputChannel: out}).Publishable() {
		t.Error("a report without sets has nothing to publish")
	}
	if (&Report{Sets: []ImageSet{{Name: "Memes"}}}).Publishable() {
		t.Error("a report without an output channel cannot be published")
	}
	if !(&Report{OutputChannel: out, Sets: []ImageSet{{Name: "Memes"}}}).Publishable() {
		t.Error("expected report to be publishable")
	}
}
