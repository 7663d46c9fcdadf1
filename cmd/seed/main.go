// Command seed populates the menu hierarchy with sample data: one root
// item plus N-1 items attached to randomly chosen existing parents. All
// items go through the menu service, so the seeder can never bypass the
// store's invariant checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/LacErnest/dj-assesment-api/internal/config"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/domain/services"
	"github.com/LacErnest/dj-assesment-api/internal/repository/postgres"
	"github.com/LacErnest/dj-assesment-api/internal/service"
)

// profile controls what the seeder generates. Item names are random
// adjective/noun pairs.
type profile struct {
	RootName   string   `yaml:"root_name"`
	Items      int      `yaml:"items"`
	Adjectives []string `yaml:"adjectives"`
	Nouns      []string `yaml:"nouns"`
}

func defaultProfile() *profile {
	return &profile{
		RootName: "Root Menu",
		Items:    50,
		Adjectives: []string{
			"Spicy", "Sweet", "Smoked", "Grilled", "Crispy", "Fresh",
			"Roasted", "Classic", "House", "Seasonal", "Stuffed", "Glazed",
		},
		Nouns: []string{
			"Starters", "Salads", "Soups", "Burgers", "Pasta", "Pizza",
			"Seafood", "Steaks", "Sides", "Desserts", "Drinks", "Specials",
			"Wraps", "Tacos", "Noodles", "Curry",
		},
	}
}

func loadProfile(path string) (*profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Items < 1 {
		return nil, fmt.Errorf("profile: items must be at least 1")
	}
	return p, nil
}

func main() {
	items := flag.Int("items", 0, "Number of menu items to create, root included (overrides profile)")
	dropTables := flag.Bool("drop-tables", false, "Drop the menu items table before seeding (fresh start)")
	profilePath := flag.String("profile", "", "Path to a YAML seed profile")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL must be set for seeding")
	}

	prof, err := loadProfile(*profilePath)
	if err != nil {
		log.Fatalf("Failed to load seed profile: %v", err)
	}
	if *items > 0 {
		prof.Items = *items
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping menu items table...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.RunSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	menuService := service.NewMenuService(
		postgres.NewMenuItemRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	log.Printf("Seeding %d menu items (environment: %s, prefix: %s)", prof.Items, cfg.Environment, cfg.TablePrefix)

	root, err := menuService.Create(ctx, &services.CreateMenuItemRequest{Name: prof.RootName})
	if err != nil {
		log.Fatalf("Failed to create root item: %v", err)
	}
	log.Printf("Created root item: %s", root.Name)

	names := newNameGenerator(prof)
	created := []*models.MenuItem{root}

	for i := 1; i < prof.Items; i++ {
		parent := created[rand.IntN(len(created))]

		item, err := menuService.Create(ctx, &services.CreateMenuItemRequest{
			Name:     names.next(),
			ParentID: &parent.ID,
		})
		if err != nil {
			log.Fatalf("Failed to create item under %s: %v", parent.Name, err)
		}
		created = append(created, item)

		log.Printf("Created item: %s (Parent: %s, Depth: %d)", item.Name, parent.Name, item.Depth)
	}

	log.Printf("Created %d menu items (including root).", prof.Items)

	tree, err := menuService.Tree(ctx)
	if err != nil {
		log.Fatalf("Failed to load hierarchy: %v", err)
	}

	fmt.Println("\nMenu Hierarchy:")
	printHierarchy(tree)
}

// nameGenerator hands out unique adjective/noun names, falling back to a
// numeric suffix once the combinations run out.
type nameGenerator struct {
	prof *profile
	used map[string]bool
	seq  int
}

func newNameGenerator(prof *profile) *nameGenerator {
	return &nameGenerator{prof: prof, used: make(map[string]bool)}
}

func (g *nameGenerator) next() string {
	combos := len(g.prof.Adjectives) * len(g.prof.Nouns)
	for attempt := 0; attempt < combos; attempt++ {
		name := fmt.Sprintf("%s %s",
			g.prof.Adjectives[rand.IntN(len(g.prof.Adjectives))],
			g.prof.Nouns[rand.IntN(len(g.prof.Nouns))],
		)
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}

	g.seq++
	return fmt.Sprintf("%s %s %d",
		g.prof.Adjectives[rand.IntN(len(g.prof.Adjectives))],
		g.prof.Nouns[rand.IntN(len(g.prof.Nouns))],
		g.seq,
	)
}

// printHierarchy prints the forest with two-space indentation per level,
// using an explicit stack so pathological depth cannot overflow.
func printHierarchy(tree *models.MenuTree) {
	type frame struct {
		node  *models.MenuItemTreeNode
		level int
	}

	var stack []frame
	for i := len(tree.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{tree.Roots[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := 0; i < top.level; i++ {
			fmt.Print("  ")
		}
		fmt.Printf("- %s (Depth: %d)\n", top.node.Name, top.node.Depth)

		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{top.node.Children[i], top.level + 1})
		}
	}
}
