// Package avatar builds DiceBear avatar URLs for players.
package avatar

import (
	"fmt"
	"math/rand/v2"
	"net/url"
)

const (
	baseURL     = "https://api.dicebear.com/6.x"
	backgrounds = "b6e3f4,c0aede,d1d4f9,ffd5dc,ffdfbf"

	DefaultStyle = "adventurer"
	DefaultCount = 24
)

// Styles are the DiceBear collections offered in the avatar picker.
var Styles = []string{
	"adventurer",
	"adventurer-neutral",
	"avataaars",
	"avataaars-neutral",
	"big-ears",
	"big-ears-neutral",
	"big-smile",
	"bottts",
	"bottts-neutral",
	"croodles",
	"croodles-neutral",
	"fun-emoji",
	"icons",
	"identicon",
	"initials",
	"lorelei",
	"lorelei-neutral",
	"micah",
	"miniavs",
	"notionists",
	"notionists-neutral",
	"open-peeps",
	"personas",
	"pixel-art",
	"pixel-art-neutral",
}

var seeds = []string{
	"alex", "bailey", "casey", "dakota", "emerson", "finley", "grayson", "harlow",
	"indigo", "jordan", "kendall", "logan", "morgan", "noah", "peyton", "quinn",
	"riley", "sawyer", "taylor", "uriel", "valentina", "winston", "xander", "zephyr",
}

// Defaults is the fixed pool new players draw from when no avatar is chosen.
var Defaults = Options(100)

// URL returns the avatar image URL for a seed in the given style.
func URL(seed, style string) string {
	if style == "" {
		style = DefaultStyle
	}
	return fmt.Sprintf("%s/%s/svg?seed=%s&backgroundColor=%s", baseURL, style, url.QueryEscape(seed), backgrounds)
}

// Options returns count avatar URLs cycling through styles and seeds.
// The list is deterministic for a given count.
func Options(count int) []string {
	if count < 0 {
		count = 0
	}
	options := make([]string, 0, count)
	for i := 0; i < count; i++ {
		style := Styles[i%len(Styles)]
		seed := fmt.Sprintf("%s-%d", seeds[i%len(seeds)], i)
		options = append(options, URL(seed, style))
	}
	return options
}

// Random picks one of the default avatars.
func Random() string {
	return Defaults[rand.IntN(len(Defaults))]
}

// Fallback is the identicon shown when a player's avatar cannot be loaded.
func Fallback(playerID string) string {
	return fmt.Sprintf("%s/identicon/svg?seed=%s&backgroundColor=b6e3f4", baseURL, url.QueryEscape(playerID))
}
