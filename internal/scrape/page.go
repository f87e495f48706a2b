// Package scrape extracts creature lists from event pages.
package scrape

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tayloree/luckydex/internal/feed"
)

const (
	sectionHeader   = "h2.event-section-header"
	pokemonList     = "ul.pkmn-list-flex"
	researchList    = "ul.event-field-research-list"
	researchLookout = 10
	unknownDistance = "unknown"
)

var reEggClass = regexp.MustCompile(`^egg(\d+)km$`)

// Page is everything extracted from one event page.
type Page struct {
	Spawns     []feed.EventSpawn        `json:"spawns"`
	Eggs       []feed.EventEgg          `json:"eventEggs"`
	Research   []feed.EventResearchTask `json:"eventResearch"`
	RaidBosses []feed.EventSpawn        `json:"raidBosses"`
}

// Generic converts the page into an enrichment payload.
func (p Page) Generic() *feed.GenericData {
	hasSpawns := len(p.Spawns) > 0
	hasResearch := len(p.Research) > 0
	return &feed.GenericData{
		HasSpawns:             &hasSpawns,
		HasFieldResearchTasks: &hasResearch,
		Spawns:                p.Spawns,
		EventEggs:             p.Eggs,
		EventResearch:         p.Research,
	}
}

// ParseHTML extracts a page from raw HTML.
func ParseHTML(body []byte) (Page, error) {
	return ParsePage(bytes.NewReader(body))
}

// ParsePage extracts spawns, eggs, research and raid bosses from r.
func ParsePage(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parsing event page: %w", err)
	}
	return Page{
		Spawns:     creaturesIn(doc, "h2#spawns"),
		Eggs:       eggsIn(doc),
		Research:   researchIn(doc),
		RaidBosses: creaturesIn(doc, "h2#raids"),
	}, nil
}

// listsAfter collects the creature lists between header and the next
// section header. Events split spawns into several lists.
func listsAfter(header *goquery.Selection) []*goquery.Selection {
	var lists []*goquery.Selection
	for el := header.Next(); el.Length() > 0; el = el.Next() {
		if el.Is(sectionHeader) {
			break
		}
		if el.Is(pokemonList) {
			lists = append(lists, el)
			continue
		}
		if nested := el.Find(pokemonList).First(); nested.Length() > 0 {
			lists = append(lists, nested)
		}
	}
	return lists
}

func isShiny(s *goquery.Selection) bool {
	return s.Find("img.shiny-icon").Length() > 0
}

func itemName(li *goquery.Selection) string {
	return strings.TrimSpace(li.Find(".pkmn-name").First().Text())
}

func creaturesIn(doc *goquery.Document, headerSelector string) []feed.EventSpawn {
	header := doc.Find(headerSelector).First()
	if header.Length() == 0 {
		return nil
	}
	var out []feed.EventSpawn
	for _, list := range listsAfter(header) {
		list.Find("li.pkmn-list-item").Each(func(_ int, li *goquery.Selection) {
			if name := itemName(li); name != "" {
				out = append(out, feed.EventSpawn{Name: name, CanBeShiny: isShiny(li)})
			}
		})
	}
	return out
}

func eggsIn(doc *goquery.Document) []feed.EventEgg {
	header := doc.Find("h2#eggs").First()
	if header.Length() == 0 {
		return nil
	}
	var out []feed.EventEgg
	for _, list := range listsAfter(header) {
		list.Find("li.pkmn-list-item").Each(func(_ int, li *goquery.Selection) {
			name := itemName(li)
			if name == "" {
				return
			}
			out = append(out, feed.EventEgg{
				Name:        name,
				EggDistance: eggDistance(li),
				CanBeShiny:  isShiny(li),
			})
		})
	}
	return out
}

// eggDistance reads the distance from an "egg<N>km" class on the image.
func eggDistance(li *goquery.Selection) string {
	img := li.Find(".pkmn-list-img").First()
	class, ok := img.Attr("class")
	if !ok {
		return unknownDistance
	}
	for _, cls := range strings.Fields(class) {
		if m := reEggClass.FindStringSubmatch(cls); m != nil {
			return m[1] + " km"
		}
	}
	return unknownDistance
}

// nextMatch walks up to limit following siblings of start for an element
// matching selector, itself or nested.
func nextMatch(start *goquery.Selection, selector string, limit int) *goquery.Selection {
	el := start.Next()
	for i := 0; i < limit && el.Length() > 0; i++ {
		if el.Is(selector) {
			return el
		}
		if nested := el.Find(selector).First(); nested.Length() > 0 {
			return nested
		}
		el = el.Next()
	}
	return nil
}

func researchIn(doc *goquery.Document) []feed.EventResearchTask {
	header := doc.Find("h2#research").First()
	if header.Length() == 0 {
		return nil
	}
	list := nextMatch(header, researchList, researchLookout)
	if list == nil {
		return nil
	}

	var out []feed.EventResearchTask
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		task := strings.TrimSpace(li.Find(".task").First().Text())
		if task == "" {
			return
		}
		var rewards []feed.EventSpawn
		li.Find(".reward").Each(func(_ int, reward *goquery.Selection) {
			name := strings.TrimSpace(reward.Find(".reward-label span").First().Text())
			if name != "" {
				rewards = append(rewards, feed.EventSpawn{Name: name, CanBeShiny: isShiny(reward)})
			}
		})
		if len(rewards) > 0 {
			out = append(out, feed.EventResearchTask{Task: task, Rewards: rewards})
		}
	})
	return out
}
