package graph

import (
	"bytes"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	// ImageFormat is the target format of image assets.
	ImageFormat = "avif"
	// AudioFormat is the target format of audio assets.
	AudioFormat = "opus"
)

// AssetKind tells the downstream build how to transcode an asset.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetAudio AssetKind = "audio"
)

// ManifestBandIDs are the bands whose icons are published.
var ManifestBandIDs = []int{1, 2, 3, 4, 5, 18, 21, 45}

// AssetEntry is one downstream asset: the source pathname and the target file.
type AssetEntry struct {
	Type     string    `json:"type"`
	Filename string    `json:"filename"`
	Kind     AssetKind `json:"kind"`
	Pathname string    `json:"pathname"`
}

// Key identifies the entry independently of file extensions: type/stem. The mirror
// and the exported rows use the same key.
func (e AssetEntry) Key() string {
	return AssetKey(e.Type, e.Filename)
}

// AssetKey builds the key of an asset of typ stored under filename, whatever its extension.
func AssetKey(typ, filename string) string {
	return typ + "/" + strings.TrimSuffix(filename, path.Ext(filename))
}

// Manifest enumerates every downstream asset, grouped by type and ordered by id.
func (g *Graph) Manifest() []AssetEntry {
	var out []AssetEntry
	add := func(typ, filename string, kind AssetKind, pathname string) {
		out = append(out, AssetEntry{Type: typ, Filename: filename, Kind: kind, Pathname: pathname})
	}
	image := func(stem string) string { return stem + "." + ImageFormat }
	audio := func(stem string) string { return stem + "." + AudioFormat }

	for _, a := range g.Attributes() {
		add("attribute", string(a.Name)+".svg", AssetImage, a.Assets().Icon)
	}

	for _, id := range g.set.Bands.IDs() {
		if !slices.Contains(ManifestBandIDs, id) {
			continue
		}
		b, _ := g.Band(id)
		add("band", strconv.Itoa(id)+".svg", AssetImage, b.Assets().Icon)
	}

	for _, id := range g.set.Characters.IDs() {
		c, _ := g.Character(id)
		add("character", image(strconv.Itoa(id)), AssetImage, c.Assets().Icon)
	}

	for _, id := range g.set.Cards.IDs() {
		c, _ := g.Card(id)
		assets := c.Assets()
		add("card", audio(strconv.Itoa(id)), AssetAudio, assets.Voice)
		for _, variant := range []struct {
			name string
			art  []CardArt
		}{{"icon", assets.Icon}, {"full", assets.Full}} {
			for _, art := range variant.art {
				form := "base"
				if art.Trained {
					form = "trained"
				}
				add("card", image(fmt.Sprintf("%d_%s_%s", id, variant.name, form)), AssetImage, art.Path)
			}
		}
	}

	for _, id := range g.set.Events.IDs() {
		e, _ := g.Event(id)
		assets := e.Assets()
		add("event", image(fmt.Sprintf("%d_banner", id)), AssetImage, assets.Banner)
		add("event", image(fmt.Sprintf("%d_background", id)), AssetImage, assets.Background)
	}

	for _, id := range g.set.Gachas.IDs() {
		c, _ := g.Gacha(id)
		assets := c.Assets()
		add("gacha", image(fmt.Sprintf("%d_logo", id)), AssetImage, assets.Logo)
		if assets.Banner != nil {
			add("gacha", image(fmt.Sprintf("%d_banner", id)), AssetImage, *assets.Banner)
		}
	}

	for _, id := range g.set.Songs.IDs() {
		s, _ := g.Song(id)
		assets := s.Assets()
		add("song", audio(strconv.Itoa(id)), AssetAudio, assets.Audio)
		for idx, cover := range assets.Cover {
			add("song", image(fmt.Sprintf("%d_%d", id, idx)), AssetImage, cover)
		}
	}

	return out
}

// EncodeManifest writes entries as an indented JSON array ending in a newline.
func EncodeManifest(entries []AssetEntry) ([]byte, error) {
	if entries == nil {
		entries = []AssetEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeManifest parses a manifest written by EncodeManifest.
func DecodeManifest(data []byte) ([]AssetEntry, error) {
	var entries []AssetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	for i, e := range entries {
		if e.Type == "" || e.Filename == "" || e.Pathname == "" {
			return nil, fmt.Errorf("manifest entry %d is incomplete", i)
		}
	}
	return entries, nil
}
