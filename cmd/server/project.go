package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/siteoptz/siteoptz/internal/catalog"
	"github.com/siteoptz/siteoptz/internal/pricing"
	"github.com/siteoptz/siteoptz/internal/selection"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the cost of a set of tools",
	Long: `Project what a selection of tools costs a team, without starting the server.

Each --tool is id[:plan[:usage]]. The plan defaults to the tool's first plan
and usage to 50 percent.

Examples:
  server project --tool chatgpt --tool claude:Pro:80
  server project --tool jasper:Creator --team 12 --cycle annual`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

var (
	projectCatalog string
	projectTools   []string
	projectTeam    int
	projectCycle   string
)

func init() {
	projectCmd.Flags().StringVar(&projectCatalog, "catalog", "", "Catalog file (JSON or YAML); defaults to the built-in catalog")
	projectCmd.Flags().StringArrayVarP(&projectTools, "tool", "t", nil, "Tool to include as id[:plan[:usage]] (repeatable)")
	projectCmd.Flags().IntVar(&projectTeam, "team", pricing.DefaultTeamSize, "Team size")
	projectCmd.Flags().StringVar(&projectCycle, "cycle", string(pricing.Monthly), "Billing cycle: monthly or annual")
	_ = projectCmd.MarkFlagRequired("tool")
}

func runProject(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog(projectCatalog)
	if err != nil {
		return err
	}

	state, err := selectTools(c, projectTools)
	if err != nil {
		return err
	}

	proj := pricing.Project(state.Items(), pricing.Params{
		TeamSize: projectTeam,
		Cycle:    pricing.ParseCycle(projectCycle),
	})
	return writeProjection(cmd.OutOrStdout(), proj)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// selectTools builds a calculator selection from id[:plan[:usage]] specs.
func selectTools(c *catalog.Catalog, specs []string) (*selection.State, error) {
	state := selection.New(c, selection.CalculatorCap)
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		id := strings.TrimSpace(parts[0])
		if err := state.Add(id); err != nil {
			return nil, fmt.Errorf("add %q: %w", id, err)
		}

		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			tool, _ := c.Get(id)
			label, ok := matchPlan(tool, parts[1])
			if !ok {
				return nil, fmt.Errorf("tool %s has no plan %q", id, parts[1])
			}
			state.SetPlan(id, label)
		}

		if len(parts) > 2 {
			usage, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(parts[2], "%")))
			if err != nil {
				return nil, fmt.Errorf("invalid usage %q for %s", parts[2], id)
			}
			state.SetUsage(id, usage)
		}
	}
	return state, nil
}

func matchPlan(tool catalog.Tool, label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, p := range tool.Plans {
		if strings.EqualFold(p.Label, label) {
			return p.Label, true
		}
	}
	return "", false
}

func writeProjection(out io.Writer, proj pricing.Projection) error {
	period := proj.Params.Cycle.PeriodLabel()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TOOL\tPLAN\tUSAGE\tCOST%s\n", strings.ToUpper(period))
	for _, l := range proj.Lines {
		cost := pricing.FormatMoney(l.Cost)
		if l.Custom {
			cost = "contact sales"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\n", l.ToolName, l.Plan, l.Usage, cost)
	}
	fmt.Fprintf(tw, "\t\t\t\n")
	fmt.Fprintf(tw, "TOTAL (%d seats, %s)\t\t\t%s\n", proj.Params.TeamSize, proj.Params.Cycle, pricing.FormatMoney(proj.Total))
	if proj.Params.Cycle == pricing.Annual {
		fmt.Fprintf(tw, "per month\t\t\t%s\n", pricing.FormatMoney(proj.MonthlyTotal))
		fmt.Fprintf(tw, "you save\t\t\t%s\n", pricing.FormatMoney(proj.Savings))
	}
	return tw.Flush()
}
