package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ChannelKind classifies a guild channel
type ChannelKind string

const (
	ChannelText     ChannelKind = "text"
	ChannelNews     ChannelKind = "news"
	ChannelThread   ChannelKind = "thread"
	ChannelForum    ChannelKind = "forum"
	ChannelVoice    ChannelKind = "voice"
	ChannelCategory ChannelKind = "category"
	ChannelOther    ChannelKind = "other"
)

// Guild is a server holding channels
type Guild struct {
	ID   string
	Name string
}

// Channel is a single guild channel
type Channel struct {
	ID   string
	Name string
	Kind ChannelKind
}

// IsTextBased reports whether message history can be read from the channel
func (c Channel) IsTextBased() bool {
	switch c.Kind {
	case ChannelText, ChannelNews, ChannelThread:
		return true
	}
	return false
}

// FindChannel returns the first channel with the given name
func FindChannel(channels []Channel, name string) (Channel, bool) {
	for _, c := range channels {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// smallWords stay lowercase inside a title
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "v": true, "via": true,
	"vs": true,
}

// DisplayName turns a channel name into a human title
// Converts "🎨-fan-art" -> "Fan Art"
func DisplayName(channel string) string {
	// Drop everything outside ASCII (emoji prefixes are common)
	ascii := strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, channel)

	ascii = strings.TrimSpace(strings.ReplaceAll(ascii, "-", " "))
	if ascii == "" {
		return ""
	}

	caser := cases.Title(language.English)
	words := strings.Fields(ascii)
	for i, w := range words {
		if isAcronym(w) {
			continue
		}
		lower := strings.ToLower(w)
		if i > 0 && i < len(words)-1 && smallWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// isAcronym reports whether w is written in capitals, like "FAQ" or "3D"
func isAcronym(w string) bool {
	return w == strings.ToUpper(w) && w != strings.ToLower(w)
}

// FileStem lowercases a caption and replaces spaces with underscores
// Converts "Fan Art" -> "fan_art"
func FileStem(caption string) string {
	return strings.ReplaceAll(strings.ToLower(caption), " ", "_")
}
