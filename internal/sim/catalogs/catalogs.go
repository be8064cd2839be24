package catalogs

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"altarcraft.ai/internal/sim/altar"
)

//go:embed altar_recipes.schema.json
var altarRecipesSchema string

// DefaultSacrificeZone is the scan half-extent used when a recipe omits one.
var DefaultSacrificeZone = altar.Vec3i{X: 3, Y: 2, Z: 3}

type Catalogs struct {
	Blocks    BlockCatalog
	Items     ItemCatalog
	Creatures CreatureCatalog
	Altar     AltarCatalog
}

type BlockCatalog struct {
	Defs   map[string]BlockDef
	Digest string
}

type BlockDef struct {
	ID    string            `json:"id"`
	Solid bool              `json:"solid"`
	Props map[string]string `json:"props,omitempty"`
}

type ItemCatalog struct {
	Defs   map[string]ItemDef
	ByTag  map[string][]string
	Digest string
}

type ItemDef struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"` // "BLOCK","MATERIAL","CATALYST","FOOD"
	Tags     []string `json:"tags,omitempty"`
	MaxStack int      `json:"max_stack,omitempty"`
}

type CreatureCatalog struct {
	Defs   map[string]CreatureDef
	Digest string
}

type CreatureDef struct {
	ID      string `json:"id"`
	Hostile bool   `json:"hostile"`
}

type AltarCatalog struct {
	Recipes  []*altar.Recipe
	Registry *altar.Registry
	Digest   string
}

// RecipeDef is the on-disk shape of one altar recipe.
type RecipeDef struct {
	ID         string          `json:"id"`
	Inputs     []IngredientDef `json:"inputs,omitempty"`
	Catalyst   IngredientDef   `json:"catalyst"`
	Sacrifices *SacrificesDef  `json:"sacrifices,omitempty"`
	BlockBelow *BlockBelowDef  `json:"block_below,omitempty"`
	DayTime    string          `json:"day_time,omitempty"`
	Weather    string          `json:"weather,omitempty"`
	RecipeTime int             `json:"recipe_time"`
	Outputs    []OutputDef     `json:"outputs"`
}

type IngredientDef struct {
	Item  string `json:"item,omitempty"`
	Tag   string `json:"tag,omitempty"`
	Count int    `json:"count,omitempty"`
}

type SacrificesDef struct {
	Zone    *Vec3Def       `json:"zone,omitempty"`
	Entries []SacrificeDef `json:"entries"`
}

type SacrificeDef struct {
	Mob   string   `json:"mob"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

type BlockBelowDef struct {
	Block string            `json:"block"`
	Props map[string]string `json:"props,omitempty"`
}

type OutputDef struct {
	Item   string   `json:"item,omitempty"`
	Mob    string   `json:"mob,omitempty"`
	Count  int      `json:"count,omitempty"`
	Offset *Vec3Def `json:"offset,omitempty"`
	Spread *Vec3Def `json:"spread,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

type Vec3Def struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadCreatures(filepath.Join(configDir, "creatures.json"), &c.Creatures); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(configDir, "altar_recipes.json"))
	if err != nil {
		return nil, err
	}
	if err := c.LoadAltarRecipes(raw); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	out.ByTag = map[string][]string{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %q", d.ID)
		}
		out.Defs[d.ID] = d
		for _, tag := range d.Tags {
			out.ByTag[tag] = append(out.ByTag[tag], d.ID)
		}
	}
	for tag := range out.ByTag {
		sort.Strings(out.ByTag[tag])
	}
	return nil
}

func loadCreatures(path string, out *CreatureCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []CreatureDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("creatures.json: %w", err)
	}
	out.Defs = map[string]CreatureDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("creatures.json: empty id")
		}
		out.Defs[d.ID] = d
	}
	return nil
}

// LoadAltarRecipes validates raw against the recipe schema, resolves every
// item, tag, block and creature reference, and builds the registry. Blocks,
// Items and Creatures must already be loaded.
func (c *Catalogs) LoadAltarRecipes(raw []byte) error {
	schema, err := jsonschema.CompileString("altar_recipes.schema.json", altarRecipesSchema)
	if err != nil {
		return fmt.Errorf("altar_recipes schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("altar_recipes.json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("altar_recipes.json: %w", err)
	}

	var defs []RecipeDef
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return fmt.Errorf("altar_recipes.json: %w", err)
	}

	recipes := make([]*altar.Recipe, 0, len(defs))
	for _, d := range defs {
		r, err := c.buildRecipe(d)
		if err != nil {
			return fmt.Errorf("altar_recipes.json: recipe %q: %w", d.ID, err)
		}
		recipes = append(recipes, r)
	}
	reg, err := altar.NewRegistry(recipes)
	if err != nil {
		return fmt.Errorf("altar_recipes.json: %w", err)
	}
	c.Altar = AltarCatalog{Recipes: recipes, Registry: reg, Digest: sha256Hex(raw)}
	return nil
}

func (c *Catalogs) buildRecipe(d RecipeDef) (*altar.Recipe, error) {
	r := &altar.Recipe{ID: d.ID, Duration: d.RecipeTime}

	for i, in := range d.Inputs {
		ing, err := c.ingredient(in)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		n := in.Count
		if n <= 0 {
			n = 1
		}
		r.Inputs = append(r.Inputs, altar.IngredientStack{Ingredient: ing, Count: n})
	}

	cat, err := c.ingredient(d.Catalyst)
	if err != nil {
		return nil, fmt.Errorf("catalyst: %w", err)
	}
	r.Catalyst = cat

	if d.Sacrifices != nil {
		r.Sacrifices.Zone = DefaultSacrificeZone
		if z := d.Sacrifices.Zone; z != nil {
			r.Sacrifices.Zone = altar.Vec3i{X: z.X, Y: z.Y, Z: z.Z}
		}
		for i, s := range d.Sacrifices.Entries {
			if _, ok := c.Creatures.Defs[s.Mob]; !ok {
				return nil, fmt.Errorf("sacrifice %d: unknown creature %q", i, s.Mob)
			}
			r.Sacrifices.Entries = append(r.Sacrifices.Entries, altar.Sacrifice{
				Creature: altar.CreaturePredicate{Type: s.Mob, Tags: s.Tags},
				Count:    s.Count,
			})
		}
	}

	if bb := d.BlockBelow; bb != nil {
		if _, ok := c.Blocks.Defs[bb.Block]; !ok {
			return nil, fmt.Errorf("block_below: unknown block %q", bb.Block)
		}
		r.BlockBelow = &altar.BlockReference{Block: bb.Block, Props: bb.Props}
	}

	if r.DayTime, err = altar.ParseDayTime(d.DayTime); err != nil {
		return nil, err
	}
	if r.Weather, err = altar.ParseWeather(d.Weather); err != nil {
		return nil, err
	}

	for i, o := range d.Outputs {
		out := altar.Output{Count: o.Count, Tags: o.Tags}
		if out.Count <= 0 {
			out.Count = 1
		}
		if o.Offset != nil {
			out.Offset = altar.Vec3i{X: o.Offset.X, Y: o.Offset.Y, Z: o.Offset.Z}
		}
		if o.Spread != nil {
			out.Spread = altar.Vec3i{X: o.Spread.X, Y: o.Spread.Y, Z: o.Spread.Z}
		}
		switch {
		case o.Item != "":
			if _, ok := c.Items.Defs[o.Item]; !ok {
				return nil, fmt.Errorf("output %d: unknown item %q", i, o.Item)
			}
			out.Kind, out.ID = altar.OutputItem, o.Item
		case o.Mob != "":
			if _, ok := c.Creatures.Defs[o.Mob]; !ok {
				return nil, fmt.Errorf("output %d: unknown creature %q", i, o.Mob)
			}
			out.Kind, out.ID = altar.OutputMob, o.Mob
		default:
			return nil, fmt.Errorf("output %d: needs item or mob", i)
		}
		r.Outputs = append(r.Outputs, out)
	}
	return r, nil
}

func (c *Catalogs) ingredient(d IngredientDef) (altar.Ingredient, error) {
	switch {
	case d.Item != "":
		if _, ok := c.Items.Defs[d.Item]; !ok {
			return altar.Ingredient{}, fmt.Errorf("unknown item %q", d.Item)
		}
		return altar.NewIngredient(d.Item, d.Item), nil
	case d.Tag != "":
		items := c.Items.ByTag[d.Tag]
		if len(items) == 0 {
			return altar.Ingredient{}, fmt.Errorf("tag %q matches no items", d.Tag)
		}
		return altar.NewIngredient("#"+d.Tag, items...), nil
	}
	return altar.Ingredient{}, fmt.Errorf("ingredient needs item or tag")
}
