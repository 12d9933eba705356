package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/findosh/myrecipes/internal/cooking"
	"github.com/findosh/myrecipes/internal/models"
	"github.com/findosh/myrecipes/internal/query"
	"github.com/findosh/myrecipes/internal/services/analytics"
	"github.com/findosh/myrecipes/internal/services/catalog"
	"github.com/findosh/myrecipes/internal/services/importer"
	"github.com/findosh/myrecipes/internal/storage/seed"
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "free text matched against titles, descriptions and tags",
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "exact category, case-insensitive",
		},
		&cli.StringFlag{
			Name:  "difficulty",
			Usage: "exact difficulty, case-insensitive",
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "tag filter; repeat to match any of several tags",
		},
		formatFlag(),
	}
}

func paramsFromCmd(cmd *cli.Command) query.Params {
	return query.Params{
		Query:      cmd.String("query"),
		Category:   cmd.String("category"),
		Difficulty: cmd.String("difficulty"),
		Tags:       cmd.StringSlice("tag"),
	}
}

// withCatalog opens the configured store and hands a catalog over it to fn.
func withCatalog(ctx context.Context, cmd *cli.Command, fn func(*catalog.Service) error) error {
	repos, release, err := openRepositories(ctx, cmd.String("db"))
	if err != nil {
		return err
	}
	defer release()
	return fn(catalog.NewService(repos.Recipes, repos.Videos, repos.Cooks))
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search recipes",
		Flags: filterFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withCatalog(ctx, cmd, func(svc *catalog.Service) error {
				recipes, err := svc.SearchRecipes(ctx, paramsFromCmd(cmd))
				if err != nil {
					return err
				}
				done, err := encode(cmd.Root().Writer, cmd.String("format"), recipes)
				if done || err != nil {
					return err
				}
				return printRecipes(cmd.Root().Writer, recipes)
			})
		},
	}
}

func videosCmd() *cli.Command {
	flags := append(filterFlags(),
		&cli.BoolFlag{
			Name:  "premium",
			Usage: "only premium lessons; --premium=false for free ones",
		},
		&cli.StringFlag{
			Name:  "cook",
			Usage: "only lessons by this cook id",
		},
	)
	return &cli.Command{
		Name:  "videos",
		Usage: "Search video lessons",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := paramsFromCmd(cmd)
			p.CookID = cmd.String("cook")
			if cmd.IsSet("premium") {
				premium := cmd.Bool("premium")
				p.Premium = &premium
			}
			return withCatalog(ctx, cmd, func(svc *catalog.Service) error {
				videos, err := svc.SearchVideos(ctx, p)
				if err != nil {
					return err
				}
				done, err := encode(cmd.Root().Writer, cmd.String("format"), videos)
				if done || err != nil {
					return err
				}
				return printVideos(cmd.Root().Writer, videos)
			})
		},
	}
}

func plansCmd() *cli.Command {
	return &cli.Command{
		Name:  "plans",
		Usage: "List subscription plans",
		Flags: []cli.Flag{formatFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			plans, err := seed.Plans()
			if err != nil {
				return err
			}
			done, err := encode(cmd.Root().Writer, cmd.String("format"), plans)
			if done || err != nil {
				return err
			}
			return printPlans(cmd.Root().Writer, plans)
		},
	}
}

func cookCmd() *cli.Command {
	return &cli.Command{
		Name:  "cook",
		Usage: "Walk through a recipe step by step",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Usage:    "recipe id",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withCatalog(ctx, cmd, func(svc *catalog.Service) error {
				recipe, err := svc.GetRecipe(ctx, cmd.String("recipe"))
				if err != nil {
					return err
				}
				return walkRecipe(ctx, cmd.Root().Writer, recipe)
			})
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Add recipes from a CSV file",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("a CSV file is required")
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			return withCatalog(ctx, cmd, func(svc *catalog.Service) error {
				result, err := importer.NewService().Import(ctx, f, svc)
				if err != nil {
					return err
				}
				w := cmd.Root().Writer
				done, err := encode(w, cmd.String("format"), result)
				if done || err != nil {
					return err
				}
				for _, problem := range result.Errors {
					fmt.Fprintf(w, "skipped %s\n", problem)
				}
				fmt.Fprintf(w, "imported %d recipes (%s format)\n", len(result.Created), result.Source)
				return printRecipes(w, result.Created)
			})
		},
	}
}

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize the catalog",
		Flags: []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withCatalog(ctx, cmd, func(svc *catalog.Service) error {
				recipes, err := svc.ListRecipes(ctx)
				if err != nil {
					return err
				}
				videos, err := svc.ListVideos(ctx)
				if err != nil {
					return err
				}
				cooks, err := svc.ListCooks(ctx)
				if err != nil {
					return err
				}
				stats := analytics.NewService(3).Summarize(recipes, videos, cooks)

				w := cmd.Root().Writer
				done, err := encode(w, cmd.String("format"), stats)
				if done || err != nil {
					return err
				}
				return printStats(w, stats)
			})
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Write the sample catalog into the --db database",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dbPath := cmd.String("db")
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			repos, release, err := openRepositories(ctx, dbPath)
			if err != nil {
				return err
			}
			defer release()

			recipes, err := repos.Recipes.List(ctx)
			if err != nil {
				return err
			}
			videos, err := repos.Videos.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "%s: %d recipes, %d videos\n", dbPath, len(recipes), len(videos))
			return nil
		},
	}
}

// printNotifier writes session notifications to the terminal.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Notify(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(n.w, "** %s %s\n", title, message)
	return err
}

// walkRecipe lists the ingredients, then completes each step in order.
func walkRecipe(ctx context.Context, w io.Writer, recipe models.Recipe) error {
	session, err := cooking.NewSession(recipe, cooking.WithNotifier(printNotifier{w: w}))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%d min, serves %d)\n\n", recipe.Title, recipe.CookingTime, recipe.Servings)
	for i, ingredient := range recipe.Ingredients {
		session.ToggleIngredient(i)
		fmt.Fprintf(w, "  [x] %s\n", ingredient)
	}
	fmt.Fprintln(w)

	for {
		i := session.CurrentStep()
		fmt.Fprintf(w, "Step %d/%d (%3.0f%%) %s\n",
			i+1, session.StepCount(), session.ProgressPercent(), recipe.Instructions[i])
		session.CompleteStep(ctx, i)
		if session.AllComplete() {
			return nil
		}
		session.Advance()
	}
}

func printRecipes(w io.Writer, recipes []models.Recipe) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tTIME\tRATING\tTAGS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dm\t%s\t%s\n",
			r.ID, r.Title, r.Category, r.Difficulty, r.CookingTime, r.Rating.StringFixed(1), strings.Join(r.Tags, ","))
	}
	return tw.Flush()
}

func printVideos(w io.Writer, videos []models.VideoLesson) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOOK\tCATEGORY\tLENGTH\tTIER")
	for i := range videos {
		v := &videos[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Title, v.CookName, v.Category, v.FormattedDuration(), v.ContentTier())
	}
	return tw.Flush()
}

func printPlans(w io.Writer, plans []models.SubscriptionPlan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tINTERVAL\tPER MONTH")
	for i := range plans {
		p := &plans[i]
		if p.IsFree() {
			fmt.Fprintf(tw, "%s\t%s\tfree\t%s\t-\n", p.ID, p.Name, p.Interval)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%s\t$%s\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Interval, p.MonthlyPrice().StringFixed(2))
	}
	return tw.Flush()
}

func printStats(w io.Writer, stats analytics.CatalogStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Recipes\t%d\n", stats.Recipes)
	fmt.Fprintf(tw, "Average rating\t%s\n", stats.AverageRating.StringFixed(2))
	fmt.Fprintf(tw, "Average cook time\t%s min\n", stats.AverageCookTime.StringFixed(1))
	fmt.Fprintf(tw, "Videos\t%d (%s%% premium, %s total)\n",
		stats.Videos, stats.PremiumPercent.StringFixed(0), models.FormatDuration(stats.TotalVideoSeconds))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CATEGORY\tRECIPES\tSHARE")
	for _, s := range stats.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s%%\n", s.Label, s.Count, s.Percent.StringFixed(0))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "COOK\tVIDEOS\tVIEWS\tENGAGEMENT")
	for _, c := range stats.Cooks {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s%%\n", c.Name, c.Videos, c.Views, c.Engagement.StringFixed(2))
	}
	return tw.Flush()
}
