package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
	"github.com/hay-kot/skillshop/internal/marketplace"
	"github.com/hay-kot/skillshop/internal/printer"
)

type AdminCmd struct {
	flags *Flags

	page   int
	search string

	course     courseFlags
	instructor instructorFlags
}

type courseFlags struct {
	name        string
	description string
	price       float64
	level       string
	category    string
	instructor  string
	thumbnail   string
	duration    int
	rating      float64
}

type instructorFlags struct {
	name     string
	email    string
	phone    string
	jobTitle string
	bio      string
	avatar   string
}

// NewAdminCmd creates the admin commands.
func NewAdminCmd(flags *Flags) *AdminCmd {
	return &AdminCmd{flags: flags}
}

func (cmd *AdminCmd) listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "page number", Value: 1, Destination: &cmd.page},
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "search term", Destination: &cmd.search},
	}
}

func (cmd *AdminCmd) courseFlagSet() []cli.Flag {
	f := &cmd.course
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "course name", Destination: &f.name},
		&cli.StringFlag{Name: "description", Usage: "course description", Destination: &f.description},
		&cli.FloatFlag{Name: "price", Usage: "price", Destination: &f.price},
		&cli.StringFlag{Name: "level", Usage: "level (All Levels, Beginner, Intermediate, Expert or 0-3)", Value: catalog.LevelAll.String(), Destination: &f.level},
		&cli.StringFlag{Name: "category", Usage: "category id", Destination: &f.category},
		&cli.StringFlag{Name: "instructor", Usage: "instructor id", Destination: &f.instructor},
		&cli.StringFlag{Name: "thumbnail", Usage: "thumbnail path on the server, or a local image to upload", Destination: &f.thumbnail},
		&cli.IntFlag{Name: "duration", Usage: "duration in hours", Destination: &f.duration},
		&cli.FloatFlag{Name: "rating", Usage: "rating (0-5)", Destination: &f.rating},
	}
}

func (cmd *AdminCmd) instructorFlagSet() []cli.Flag {
	f := &cmd.instructor
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "instructor name", Destination: &f.name},
		&cli.StringFlag{Name: "email", Usage: "email address", Destination: &f.email},
		&cli.StringFlag{Name: "phone", Usage: "phone number", Destination: &f.phone},
		&cli.StringFlag{Name: "job-title", Usage: "job title name or number", Value: catalog.JobFullstack.String(), Destination: &f.jobTitle},
		&cli.StringFlag{Name: "bio", Usage: "short biography", Destination: &f.bio},
		&cli.StringFlag{Name: "avatar", Usage: "avatar path on the server, or a local image to upload", Destination: &f.avatar},
	}
}

// Register adds the admin commands to the application.
func (cmd *AdminCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "admin",
		Usage: "Manage the catalog (admin accounts only)",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show dashboard statistics",
				Action: cmd.stats,
			},
			{
				Name:  "courses",
				Usage: "Manage courses",
				Commands: []*cli.Command{
					{Name: "ls", Usage: "List courses", Flags: cmd.listFlags(), Action: cmd.listCourses},
					{
						Name:      "create",
						Usage:     "Create a course",
						UsageText: "skillshop admin courses create --name <name> --description <text> --price <n> --category <id> --instructor <id> [options]",
						Flags:     cmd.courseFlagSet(),
						Action:    cmd.createCourse,
					},
					{
						Name:      "update",
						Usage:     "Update a course; unset flags keep their current value",
						UsageText: "skillshop admin courses update <course-id> [options]",
						Flags:     cmd.courseFlagSet(),
						Action:    cmd.updateCourse,
					},
					{Name: "rm", Usage: "Delete courses", UsageText: "skillshop admin courses rm <course-id...>", Action: cmd.deleteCourses},
				},
			},
			{
				Name:  "instructors",
				Usage: "Manage instructors",
				Commands: []*cli.Command{
					{Name: "ls", Usage: "List instructors", Flags: cmd.listFlags(), Action: cmd.listInstructors},
					{
						Name:      "create",
						Usage:     "Create an instructor",
						UsageText: "skillshop admin instructors create --name <name> --email <email> [options]",
						Flags:     cmd.instructorFlagSet(),
						Action:    cmd.createInstructor,
					},
					{
						Name:      "update",
						Usage:     "Replace an instructor's details",
						UsageText: "skillshop admin instructors update <instructor-id> --name <name> --email <email> [options]",
						Flags:     cmd.instructorFlagSet(),
						Action:    cmd.updateInstructor,
					},
					{Name: "rm", Usage: "Delete instructors", UsageText: "skillshop admin instructors rm <instructor-id...>", Action: cmd.deleteInstructors},
				},
			},
			{
				Name:      "upload",
				Usage:     "Upload images matching a glob",
				UsageText: "skillshop admin upload <glob>",
				Description: `Uploads every image matching the pattern and prints the server path of each.

Patterns support ** for recursive matching, for example 'assets/**/*.png'.`,
				Action: cmd.upload,
			},
		},
	})

	return app
}

func (cmd *AdminCmd) stats(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	stats, err := cmd.flags.Service.DashboardStats(ctx)
	if err != nil {
		return err
	}

	p.Section("Dashboard")
	p.KeyValue("Courses", fmt.Sprint(stats.TotalCourses))
	p.KeyValue("Categories", fmt.Sprint(stats.TotalCategories))
	p.KeyValue("Instructors", fmt.Sprint(stats.TotalInstructors))
	p.KeyValue("Monthly subscriptions", fmt.Sprint(stats.MonthlySubscriptions))
	return nil
}

func (cmd *AdminCmd) listCourses(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	page, err := cmd.flags.Service.AdminCourses(ctx, catalog.Query{Page: cmd.page, Search: cmd.search})
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		p.Infof("No courses found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tLEVEL\tPRICE\tSTUDENTS\tCREATED")
	for _, course := range page.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			course.ID, course.DisplayTitle(), course.Level, printer.Money(course.Price, ""),
			course.StudentsCount, course.CreatedAt)
	}
	_ = w.Flush()

	p.Printf("")
	p.Printf("Page %d of %d (%d courses)", page.Page, max(page.TotalPages(), 1), page.TotalItems)
	return nil
}

// courseInput builds the request body from flags. Flags that were not set keep
// the values in base.
func (cmd *AdminCmd) courseInput(ctx context.Context, c *cli.Command, base catalog.CourseInput) (catalog.CourseInput, error) {
	f := cmd.course
	in := base

	if c.IsSet("name") {
		in.Name = f.name
	}
	if c.IsSet("description") {
		in.Description = f.description
	}
	if c.IsSet("price") {
		in.Price = f.price
	}
	if c.IsSet("level") || base == (catalog.CourseInput{}) {
		level, err := catalog.ParseLevel(f.level)
		if err != nil {
			return in, err
		}
		in.Level = level
	}
	if c.IsSet("category") {
		in.CategoryID = ident.ID(f.category)
	}
	if c.IsSet("instructor") {
		in.InstructorID = ident.ID(f.instructor)
	}
	if c.IsSet("duration") {
		in.Duration = f.duration
	}
	if c.IsSet("rating") {
		in.Rating = f.rating
	}
	if c.IsSet("thumbnail") {
		path, err := cmd.serverPath(ctx, f.thumbnail)
		if err != nil {
			return in, err
		}
		in.ThumbnailPath = path
	}

	return in, nil
}

// serverPath uploads value when it names a local file and returns the server
// path; anything else is passed through.
func (cmd *AdminCmd) serverPath(ctx context.Context, value string) (string, error) {
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return value, nil
	}

	path, err := cmd.flags.Service.UploadImage(ctx, value)
	if err != nil {
		return "", err
	}
	printer.Ctx(ctx).Infof("Uploaded %s to %s", value, path)
	return path, nil
}

func (cmd *AdminCmd) createCourse(ctx context.Context, c *cli.Command) error {
	in, err := cmd.courseInput(ctx, c, catalog.CourseInput{})
	if err != nil {
		return err
	}

	course, err := cmd.flags.Service.CreateCourse(ctx, in)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Course created", fmt.Sprintf("%s (%s)", course.DisplayTitle(), course.ID))
	return nil
}

func (cmd *AdminCmd) updateCourse(ctx context.Context, c *cli.Command) error {
	id := ident.ID(c.Args().First())
	if id.IsZero() {
		return fmt.Errorf("course id required\n\nUsage: skillshop admin courses update <course-id> [options]")
	}

	current, err := cmd.flags.Service.Course(ctx, id)
	if err != nil {
		return err
	}

	in, err := cmd.courseInput(ctx, c, catalog.CourseInput{
		Name:          current.DisplayTitle(),
		Description:   current.Description,
		Price:         current.Price,
		Level:         current.Level,
		CategoryID:    current.CategoryID,
		InstructorID:  current.InstructorID,
		ThumbnailPath: current.Image(),
		Duration:      current.Duration,
		Rating:        current.Rating,
	})
	if err != nil {
		return err
	}

	course, err := cmd.flags.Service.UpdateCourse(ctx, id, in)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Course updated", course.DisplayTitle())
	return nil
}

func (cmd *AdminCmd) deleteCourses(ctx context.Context, c *cli.Command) error {
	return deleteEach(ctx, c, "course", cmd.flags.Service.DeleteCourse)
}

func (cmd *AdminCmd) listInstructors(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	page, err := cmd.flags.Service.Instructors(ctx, catalog.Query{Page: cmd.page, Search: cmd.search})
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		p.Infof("No instructors found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTITLE\tCOURSES")
	for _, in := range page.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", in.ID, in.Name, in.Email, in.JobTitle, in.CoursesCount)
	}
	_ = w.Flush()

	p.Printf("")
	p.Printf("Page %d of %d (%d instructors)", page.Page, max(page.TotalPages(), 1), page.TotalItems)
	return nil
}

func (cmd *AdminCmd) instructorInput(ctx context.Context) (catalog.InstructorInput, error) {
	f := cmd.instructor

	job, err := catalog.ParseJobTitle(f.jobTitle)
	if err != nil {
		return catalog.InstructorInput{}, err
	}

	in := catalog.InstructorInput{
		Name:        f.name,
		Email:       f.email,
		PhoneNumber: f.phone,
		JobTitle:    job,
		Bio:         f.bio,
	}

	if f.avatar != "" {
		in.AvatarPath, err = cmd.serverPath(ctx, f.avatar)
		if err != nil {
			return in, err
		}
	}

	return in, nil
}

func (cmd *AdminCmd) createInstructor(ctx context.Context, _ *cli.Command) error {
	in, err := cmd.instructorInput(ctx)
	if err != nil {
		return err
	}

	instructor, err := cmd.flags.Service.CreateInstructor(ctx, in)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Instructor created", fmt.Sprintf("%s (%s)", instructor.Name, instructor.ID))
	return nil
}

func (cmd *AdminCmd) updateInstructor(ctx context.Context, c *cli.Command) error {
	id := ident.ID(c.Args().First())
	if id.IsZero() {
		return fmt.Errorf("instructor id required\n\nUsage: skillshop admin instructors update <instructor-id> [options]")
	}

	in, err := cmd.instructorInput(ctx)
	if err != nil {
		return err
	}

	instructor, err := cmd.flags.Service.UpdateInstructor(ctx, id, in)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Instructor updated", instructor.Name)
	return nil
}

func (cmd *AdminCmd) deleteInstructors(ctx context.Context, c *cli.Command) error {
	return deleteEach(ctx, c, "instructor", cmd.flags.Service.DeleteInstructor)
}

func deleteEach(ctx context.Context, c *cli.Command, kind string, del func(context.Context, ident.ID) error) error {
	p := printer.Ctx(ctx)

	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%s id required", kind)
	}

	var failed int
	for _, arg := range args {
		if err := del(ctx, ident.ID(arg)); err != nil {
			p.Errorf("%s %s: %v", kind, arg, err)
			failed++
			continue
		}
		p.Successf("Deleted %s %s", kind, arg)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(args))
	}
	return nil
}

func (cmd *AdminCmd) upload(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	pattern := c.Args().First()
	if pattern == "" {
		return fmt.Errorf("glob pattern required\n\nUsage: skillshop admin upload <glob>")
	}

	results, err := cmd.flags.Service.UploadImages(ctx, pattern)
	for _, r := range results {
		if r.Err != nil {
			p.FailItem(r.Path, r.Err.Error())
			continue
		}
		p.CheckItem(r.Path, r.FilePath)
	}
	if err != nil {
		return err
	}

	return marketplace.UploadErrors(results)
}
