package scrape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/luckydex/internal/scrape"
)

const eventPage = `<html><body>
<h2 id="spawns" class="event-section-header spawns">Spawns</h2>
<h2 id="wild-encounters">Wild Encounters</h2>
<p>Common spawns</p>
<ul class="pkmn-list-flex">
  <li class="pkmn-list-item">
    <div class="pkmn-list-img poison"><img src="icon.png" /></div>
    <img class="shiny-icon" src="shiny.png" alt="shiny" />
    <div class="pkmn-name">Plusle</div>
  </li>
  <li class="pkmn-list-item"><div class="pkmn-list-img"><img /></div><div class="pkmn-name"> </div></li>
</ul>
<div class="rare"><ul class="pkmn-list-flex">
  <li class="pkmn-list-item"><div class="pkmn-list-img"><img /></div><div class="pkmn-name">Audino</div></li>
</ul></div>
<h2 id="eggs" class="event-section-header eggs">Eggs</h2>
<ul class="pkmn-list-flex">
  <li class="pkmn-list-item">
    <div class="pkmn-list-img egg7km"><img /></div>
    <img class="shiny-icon" />
    <div class="pkmn-name">Igglybuff</div>
  </li>
  <li class="pkmn-list-item"><div class="pkmn-list-img normal"><img /></div><div class="pkmn-name">Happiny</div></li>
</ul>
<h2 id="research" class="event-section-header research">Research</h2>
<p>Event tasks</p>
<ul class="event-field-research-list">
  <li>
    <span class="task"> Catch 5 Pokemon</span>
    <div class="reward-list">
      <div class="reward"><span class="reward-bubble"><img class="shiny-icon" /></span><span class="reward-label"><span>Minun</span></span></div>
    </div>
  </li>
  <li><span class="task">Spin 3 stops</span><div class="reward"><span class="reward-label"><span>1000 Stardust</span></span></div></li>
  <li><span class="task">No rewards</span></li>
</ul>
<h2 id="raids" class="event-section-header raids">Raids</h2>
<ul class="pkmn-list-flex">
  <li class="pkmn-list-item"><div class="pkmn-name">Kyogre</div></li>
</ul>
</body></html>`

func TestParseHTML(t *testing.T) {
	page, err := scrape.ParseHTML([]byte(eventPage))
	require.NoError(t, err)

	require.Len(t, page.Spawns, 2)
	assert.Equal(t, "Plusle", page.Spawns[0].Name)
	assert.True(t, page.Spawns[0].CanBeShiny)
	assert.Equal(t, "Audino", page.Spawns[1].Name)
	assert.False(t, page.Spawns[1].CanBeShiny)

	require.Len(t, page.Eggs, 2)
	assert.Equal(t, "7 km", page.Eggs[0].EggDistance)
	assert.True(t, page.Eggs[0].CanBeShiny)
	assert.Equal(t, "unknown", page.Eggs[1].EggDistance)

	require.Len(t, page.Research, 2)
	assert.Equal(t, "Catch 5 Pokemon", page.Research[0].Task)
	assert.Equal(t, "Minun", page.Research[0].Rewards[0].Name)
	assert.True(t, page.Research[0].Rewards[0].CanBeShiny)

	require.Len(t, page.RaidBosses, 1)
	assert.Equal(t, "Kyogre", page.RaidBosses[0].Name)

	g := page.Generic()
	assert.True(t, *g.HasSpawns)
	assert.True(t, *g.HasFieldResearchTasks)
}

func TestParseHTML_MissingSections(t *testing.T) {
	page, err := scrape.ParseHTML([]byte(`<html><body><p>Nothing here</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, page.Spawns)
	assert.Empty(t, page.Eggs)
	assert.Empty(t, page.Research)
	assert.False(t, *page.Generic().HasSpawns)
}

func TestBossNamesFromJSON(t *testing.T) {
	html := []byte(`<script>window.__DATA__ = {"bosses":[{"name":"Kyogre","image":"a.png"},{"name":"Groudon"}]};</script>
<script>self.push("{\"bosses\":[{\"name\":\"Kyogre\",\"types\":[\"water\"]},{\"name\":\"Rayquaza\"}]}")</script>`)

	assert.Equal(t, []string{"Kyogre", "Groudon", "Rayquaza"}, scrape.BossNamesFromJSON(html))
}

func TestNamesInText(t *testing.T) {
	html := []byte(`<html><head><style>.dialga{}</style><script>var palkia = 1;</script></head>
<body><p>Featuring <b>Giratina</b> and Mega   Rayquaza!</p></body></html>`)

	got := scrape.NamesInText(html, []string{"Dialga", "Palkia", "Giratina", "Rayquaza", "Ray"})
	assert.Equal(t, []string{"Giratina", "Rayquaza"}, got)
}

func TestFeatured(t *testing.T) {
	tests := []struct {
		name, id string
		want     []string
	}{
		{"Kyogre & Groudon Raid Day", "", []string{"Kyogre", "Groudon"}},
		{"Darkrai in 5-star Raid Battles", "", []string{"Darkrai"}},
		{"Something Else", "kyurem-raid-day-2026", []string{"Kyurem"}},
		{"Shadow Raid Day", "shadow-raid-day", nil},
		{"Mewtwo Raid Day", "mewtwo-raid-day", []string{"Mewtwo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrape.Featured(tt.name, tt.id))
		})
	}
}

func TestIsGenericFeaturedName(t *testing.T) {
	assert.True(t, scrape.IsGenericFeaturedName("Day"))
	assert.True(t, scrape.IsGenericFeaturedName("Pokemon"))
	assert.True(t, scrape.IsGenericFeaturedName("Elite"))
	assert.False(t, scrape.IsGenericFeaturedName("Latias"))
}
