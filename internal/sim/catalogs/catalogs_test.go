package catalogs

import (
	"strings"
	"testing"

	"altarcraft.ai/internal/sim/altar"
)

func TestLoad_Configs(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cats.Blocks.Digest == "" || cats.Items.Digest == "" || cats.Altar.Digest == "" {
		t.Fatalf("missing digests")
	}
	if got := len(cats.Altar.Recipes); got != 3 {
		t.Fatalf("recipes: got %d", got)
	}
	r, ok := cats.Altar.Registry.Get("transmute_gold")
	if !ok {
		t.Fatalf("transmute_gold missing")
	}
	if r.DayTime != altar.DayTimeDay || r.Duration != 100 {
		t.Fatalf("transmute_gold: %+v", r)
	}
	gems := r.Inputs[1].Ingredient
	if !gems.Test(altar.ItemStack{Item: "RUBY", Count: 1}) || !gems.Test(altar.ItemStack{Item: "SAPPHIRE", Count: 1}) {
		t.Fatalf("gems tag should accept RUBY and SAPPHIRE")
	}
	if gems.Test(altar.ItemStack{Item: "IRON_INGOT", Count: 1}) {
		t.Fatalf("gems tag accepted IRON_INGOT")
	}

	storm, _ := cats.Altar.Registry.Get("storm_call")
	if storm.Sacrifices.Zone != DefaultSacrificeZone {
		t.Fatalf("storm_call zone: got %+v", storm.Sacrifices.Zone)
	}
	if storm.Weather != altar.WeatherRain {
		t.Fatalf("storm_call weather: %v", storm.Weather)
	}
	if !cats.Altar.Registry.Catalysts().IsCatalyst("NETHER_STAR") {
		t.Fatalf("NETHER_STAR should be a catalyst")
	}
}

func loadBase(t *testing.T) *Catalogs {
	t.Helper()
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return cats
}

func TestLoadAltarRecipes_SchemaViolation(t *testing.T) {
	cats := loadBase(t)
	// recipe_time is required.
	raw := `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"outputs":[{"item":"RUBY"}]}]`
	if err := cats.LoadAltarRecipes([]byte(raw)); err == nil {
		t.Fatalf("expected schema error")
	}
	// item and tag are exclusive.
	raw = `[{"id":"x","catalyst":{"item":"BLAZE_ROD","tag":"gems"},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`
	if err := cats.LoadAltarRecipes([]byte(raw)); err == nil {
		t.Fatalf("expected schema error for item+tag")
	}
	// Scan zones and spreads are half-extents.
	raw = `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"sacrifices":{"zone":{"x":-1,"y":2,"z":3},"entries":[{"mob":"SHEEP","count":1}]},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`
	if err := cats.LoadAltarRecipes([]byte(raw)); err == nil {
		t.Fatalf("expected schema error for negative zone")
	}
	raw = `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"recipe_time":1,"outputs":[{"item":"RUBY","count":2,"spread":{"x":1,"z":-1}}]}]`
	if err := cats.LoadAltarRecipes([]byte(raw)); err == nil {
		t.Fatalf("expected schema error for negative spread")
	}
	// Offsets may point anywhere.
	raw = `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"recipe_time":1,"outputs":[{"item":"RUBY","offset":{"y":-1}}]}]`
	if err := cats.LoadAltarRecipes([]byte(raw)); err != nil {
		t.Fatalf("negative offset: %v", err)
	}
}

func TestLoadAltarRecipes_UnknownReferences(t *testing.T) {
	cats := loadBase(t)
	cases := map[string]string{
		"unknown item":     `[{"id":"x","inputs":[{"item":"NOPE"}],"catalyst":{"item":"BLAZE_ROD"},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`,
		"empty tag":        `[{"id":"x","catalyst":{"tag":"nothing"},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`,
		"unknown creature": `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"sacrifices":{"entries":[{"mob":"DRAGON","count":1}]},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`,
		"unknown block":    `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"block_below":{"block":"LAVA"},"recipe_time":1,"outputs":[{"item":"RUBY"}]}]`,
		"unknown mob out":  `[{"id":"x","catalyst":{"item":"BLAZE_ROD"},"recipe_time":1,"outputs":[{"mob":"DRAGON"}]}]`,
	}
	for name, raw := range cases {
		err := cats.LoadAltarRecipes([]byte(raw))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.Contains(err.Error(), `recipe "x"`) {
			t.Fatalf("%s: error should name the recipe: %v", name, err)
		}
	}
}

func TestLoadAltarRecipes_DuplicateIDs(t *testing.T) {
	cats := loadBase(t)
	one := `{"id":"x","catalyst":{"item":"BLAZE_ROD"},"recipe_time":1,"outputs":[{"item":"RUBY"}]}`
	if err := cats.LoadAltarRecipes([]byte("[" + one + "," + one + "]")); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
