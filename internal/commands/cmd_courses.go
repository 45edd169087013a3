package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/printer"
	"github.com/hay-kot/skillshop/internal/styles"
	"github.com/hay-kot/skillshop/internal/tui"
)

type CoursesCmd struct {
	flags *Flags

	page     int
	search   string
	category string
	sort     string
}

// NewCoursesCmd creates the catalog commands.
func NewCoursesCmd(flags *Flags) *CoursesCmd {
	return &CoursesCmd{flags: flags}
}

func (cmd *CoursesCmd) queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "page number", Value: 1, Destination: &cmd.page},
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "search term", Destination: &cmd.search},
		&cli.StringFlag{Name: "category", Usage: "category id", Destination: &cmd.category},
		&cli.StringFlag{
			Name:        "sort",
			Usage:       "sort order (" + strings.Join(catalog.SortKeys, ", ") + ")",
			Destination: &cmd.sort,
		},
	}
}

func (cmd *CoursesCmd) query() catalog.Query {
	return catalog.Query{
		Page:       cmd.page,
		Search:     cmd.search,
		CategoryID: cmd.category,
		Sort:       cmd.sort,
	}
}

// Register adds the courses and categories commands to the application.
func (cmd *CoursesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:  "courses",
			Usage: "Browse the course catalog",
			Commands: []*cli.Command{
				{
					Name:      "ls",
					Usage:     "List one page of courses",
					UsageText: "skillshop courses ls [--page n] [--search term] [--category id] [--sort order]",
					Flags:     cmd.queryFlags(),
					Action:    cmd.list,
				},
				{
					Name:      "show",
					Usage:     "Show a course and related courses",
					UsageText: "skillshop courses show <course-id>",
					Action:    cmd.show,
				},
				{
					Name:   "top",
					Usage:  "Show featured courses, categories and instructors",
					Action: cmd.top,
				},
				{
					Name:  "browse",
					Usage: "Browse the catalog interactively",
					Description: `Opens a paged course browser.

Keys: n/p change page, enter shows details, a adds to cart, / filters, q quits.`,
					Flags:  cmd.queryFlags(),
					Action: cmd.browse,
				},
			},
		},
		&cli.Command{
			Name:   "categories",
			Usage:  "List course categories",
			Action: cmd.categories,
		},
	)

	return app
}

func (cmd *CoursesCmd) list(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	page, err := cmd.flags.Service.ListCourses(ctx, cmd.query())
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		p.Infof("No courses found")
		return nil
	}

	writeCourseTable(c.Root().Writer, page.Items, cmd.flags.Service.Cart().Contains)
	p.Printf("")
	p.Printf("Page %d of %d (%d courses)", page.Page, max(page.TotalPages(), 1), page.TotalItems)
	return nil
}

func writeCourseTable(out io.Writer, courses []catalog.Course, inCart func(ident.ID) bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tINSTRUCTOR\tLEVEL\tRATING\tPRICE\t")

	for _, course := range courses {
		mark := ""
		if inCart != nil && inCart(course.ID) {
			mark = printer.Cart
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\t%s\n",
			course.ID, course.DisplayTitle(), course.InstructorName, course.Level,
			course.Rating, printer.Money(course.Price, ""), mark)
	}

	_ = w.Flush()
}

func (cmd *CoursesCmd) show(ctx context.Context, c *cli.Command) error {
	id := ident.ID(c.Args().First())
	if id.IsZero() {
		return fmt.Errorf("course id required\n\nUsage: skillshop courses show <course-id>")
	}

	course, err := cmd.flags.Service.Course(ctx, id)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(tui.CourseMarkdown(course))
	if err != nil {
		return fmt.Errorf("render course: %w", err)
	}
	_, _ = fmt.Fprint(out, rendered)

	if cmd.flags.Service.Cart().Contains(course.ID) {
		_, _ = fmt.Fprintln(out, styles.BadgeStyle.Render("  "+printer.Cart+" in your cart"))
	}

	related, err := cmd.flags.Service.RelatedCourses(ctx, course)
	if err != nil {
		printer.Ctx(ctx).Warnf("related courses unavailable: %v", err)
		return nil
	}
	if len(related) > 0 {
		_, _ = fmt.Fprintln(out, styles.TitleStyle.Render("Related courses"))
		writeCourseTable(out, related, cmd.flags.Service.Cart().Contains)
	}

	return nil
}

func (cmd *CoursesCmd) top(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service
	out := c.Root().Writer

	courses, err := svc.TopCourses(ctx)
	if err != nil {
		return err
	}
	categories, err := svc.TopCategories(ctx)
	if err != nil {
		return err
	}
	instructors, err := svc.TopInstructors(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, styles.TitleStyle.Render("Top courses"))
	writeCourseTable(out, courses, svc.Cart().Contains)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.TitleStyle.Render("Top categories"))
	writeCategoryTable(out, categories)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.TitleStyle.Render("Top instructors"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTITLE\tCOURSES")
	for _, in := range instructors {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", in.ID, in.Name, in.JobTitle, in.CoursesCount)
	}
	_ = w.Flush()

	return nil
}

func writeCategoryTable(out io.Writer, categories []catalog.Category) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOURSES")
	for _, cat := range categories {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", cat.ID, cat.Name, cat.CoursesCount)
	}
	_ = w.Flush()
}

func (cmd *CoursesCmd) categories(ctx context.Context, c *cli.Command) error {
	categories, err := cmd.flags.Service.Categories(ctx)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		printer.Ctx(ctx).Infof("No categories found")
		return nil
	}

	writeCategoryTable(c.Root().Writer, categories)
	return nil
}

func (cmd *CoursesCmd) browse(ctx context.Context, _ *cli.Command) error {
	svc := cmd.flags.Service

	m := tui.New(ctx, svc, svc.Cart(), cmd.query())
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	return nil
}
