package graph

import (
	"fmt"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/models"
)

// TrainedOnlyCardTypes are card types released only in their trained form.
var TrainedOnlyCardTypes = map[string]bool{
	"birthday": true,
}

// AttributeAssets are the asset paths of an attribute.
type AttributeAssets struct {
	Icon string `json:"icon"`
}

// BandAssets are the asset paths of a band.
type BandAssets struct {
	Icon string `json:"icon"`
}

// CharacterAssets are the asset paths of a character.
type CharacterAssets struct {
	Icon string `json:"icon"`
}

// CardArt is one card image variant.
type CardArt struct {
	Trained bool   `json:"trained"`
	Path    string `json:"path"`
}

// CardAssets are the asset paths of a card.
type CardAssets struct {
	Icon  []CardArt `json:"icon"`
	Full  []CardArt `json:"full"`
	Voice string    `json:"voice"`
}

// EventAssets are the asset paths of an event.
type EventAssets struct {
	Banner     string `json:"banner"`
	Background string `json:"background"`
}

// GachaAssets are the asset paths of a gacha. Banner is nil when the gacha has none.
type GachaAssets struct {
	Logo   string  `json:"logo"`
	Banner *string `json:"banner"`
}

// SongAssets are the asset paths of a song, with one cover per jacket image.
type SongAssets struct {
	Audio string   `json:"audio"`
	Cover []string `json:"cover"`
}

// CardBucket returns the thumbnail directory bucket of a card: id/50, five digits.
func CardBucket(id int) string {
	return utils.PadID(id/50, 5)
}

// SongBucket returns the jacket directory bucket of a song: id rounded up to a multiple of 10.
func SongBucket(id int) int {
	return (id + 9) / 10 * 10
}

func (n AttributeNode) Assets() AttributeAssets {
	return AttributeAssets{Icon: "/res/icon/" + string(n.Name) + ".svg"}
}

func (n BandNode) Assets() BandAssets {
	return BandAssets{Icon: fmt.Sprintf("/res/icon/band_%d.svg", n.ID)}
}

func (n CharacterNode) Assets() CharacterAssets {
	return CharacterAssets{Icon: fmt.Sprintf("/res/icon/chara_icon_%d.png", n.ID)}
}

func (n CardNode) Assets() CardAssets {
	icon, full := cardArt(n.Card)
	return CardAssets{Icon: icon, Full: full, Voice: n.voice()}
}

func cardArt(c models.Card) (icon, full []CardArt) {
	switch {
	case c.Rarity < 3:
		return []CardArt{{Trained: false, Path: cardIcon(c, false)}},
			[]CardArt{{Trained: false, Path: cardFull(c, false)}}
	case TrainedOnlyCardTypes[c.Type]:
		return []CardArt{{Trained: true, Path: cardIcon(c, true)}},
			[]CardArt{{Trained: true, Path: cardFull(c, true)}}
	default:
		// The untrained full art entry carries the untrained icon path.
		return []CardArt{{Trained: false, Path: cardIcon(c, false)}, {Trained: true, Path: cardIcon(c, true)}},
			[]CardArt{{Trained: false, Path: cardIcon(c, false)}, {Trained: true, Path: cardFull(c, true)}}
	}
}

func cardVariant(trained bool) string {
	if trained {
		return "after_training"
	}
	return "normal"
}

func cardIcon(c models.Card, trained bool) string {
	return fmt.Sprintf("/assets/jp/thumb/chara/card%s_rip/%s_%s.png", CardBucket(c.ID), c.ResourceSetName, cardVariant(trained))
}

func cardFull(c models.Card, trained bool) string {
	return fmt.Sprintf("/assets/jp/characters/resourceset/%s_rip/card_%s.png", c.ResourceSetName, cardVariant(trained))
}

// voice looks the card's voice line up in the voice banks and falls back to the bank
// named after the card type.
func (n CardNode) voice() string {
	file := n.ResourceSetName + ".mp3"
	bank, ok := n.g.set.VoiceBanks.Find(file)
	if !ok {
		bank = n.Type + "_rip"
	}
	return "/assets/jp/sound/voice/gacha/" + bank + "/" + file
}

func (n EventNode) Assets() EventAssets {
	return EventAssets{
		Banner:     "/assets/jp/homebanner_rip/" + n.BannerAssetBundleName + ".png",
		Background: "/assets/jp/event/" + n.AssetBundleName + "/topscreen_rip/bg_eventtop.png",
	}
}

func (n GachaNode) Assets() GachaAssets {
	a := GachaAssets{Logo: "/assets/jp/gacha/screen/" + n.ResourceName + "_rip/logo.png"}
	if n.BannerAssetBundleName != nil && *n.BannerAssetBundleName != "" {
		banner := "/assets/jp/homebanner_rip/" + *n.BannerAssetBundleName + ".png"
		a.Banner = &banner
	}
	return a
}

func (n SongNode) Assets() SongAssets {
	id := utils.PadID(n.ID, 3)
	bucket := SongBucket(n.ID)

	covers := make([]string, 0, len(n.JacketImages))
	for _, jacket := range n.JacketImages {
		covers = append(covers, fmt.Sprintf(
			"/assets/jp/musicjacket/musicjacket%d_rip/assets-star-forassetbundle-startapp-musicjacket-musicjacket%d-%s-jacket.png",
			bucket, bucket, jacket,
		))
	}
	return SongAssets{
		Audio: "/assets/jp/sound/bgm" + id + "_rip/bgm" + id + ".mp3",
		Cover: covers,
	}
}
