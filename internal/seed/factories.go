// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"promptvault/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded account signs in with.
const DefaultPassword = "password123"

// Options configure a Factory.
type Options struct {
	// Seed makes generated content reproducible. Zero picks a time-based seed.
	Seed int64
	// MaxDays spreads createdAt timestamps over this many days back.
	MaxDays int
	// Password overrides DefaultPassword.
	Password string
	// DryRun builds entities with synthetic ids and never touches the database.
	DryRun bool
}

var usernameJunk = regexp.MustCompile(`[^a-z0-9_]+`)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	opts         Options
	faker        *gofakeit.Faker
	passwordHash string
	seq          int
}

// NewFactory creates a Factory bound to db. The password is hashed once and
// shared by every account it creates.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		db:           db,
		opts:         opts,
		faker:        gofakeit.New(opts.Seed),
		passwordHash: string(hash),
	}, nil
}

// pastTime returns a moment within the configured window.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) username(first, last string) string {
	f.seq++
	base := usernameJunk.ReplaceAllString(strings.ToLower(first+"_"+last), "")
	suffix := fmt.Sprintf("%d", f.seq)
	if max := 30 - len(suffix); len(base) > max {
		base = base[:max]
	}
	if len(base) < 2 {
		base = "user"
	}
	return base + suffix
}

// BuildUser constructs an account without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Username:    f.username(first, last),
		DisplayName: first + " " + last,
		Bio:         f.faker.Sentence(10),
		Password:    f.passwordHash,
		IsVerified:  f.faker.Number(0, 4) == 0,
		Gender:      f.faker.RandomString([]string{models.GenderMale, models.GenderFemale, ""}),
		CreatedAt:   f.pastTime(),
	}
	if f.faker.Number(0, 3) == 0 {
		user.LinkedinURL = "https://www.linkedin.com/in/" + user.Username
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists an account.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if f.opts.DryRun {
		user.ID = uuid.NewString()
		user.UsernameKey = models.UsernameKey(user.Username)
		if user.AvatarURL == "" {
			user.AvatarURL = models.DefaultAvatarURL(user.Username)
		}
		return user, nil
	}
	if err := f.db.Omit(clause.Associations).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

func (f *Factory) randomModel() models.ModelRef {
	if f.faker.Number(0, 9) == 0 {
		return models.ParseModelRef(f.faker.Company() + " " + f.faker.Word())
	}
	known := models.KnownModels()
	return models.ModelRef{Known: known[f.faker.Number(0, len(known)-1)]}
}

func (f *Factory) randomCategory() models.Category {
	cats := models.Categories()
	return cats[f.faker.Number(0, len(cats)-1)]
}

// BuildPrompt constructs a prompt owned by author without persisting it.
// Counters are plausible but the rating stays zero; ratings are recorded
// separately so the aggregate matches the stored scores.
func (f *Factory) BuildPrompt(author *models.User, overrides ...func(*models.Prompt)) *models.Prompt {
	views := f.faker.Number(0, 500)
	tags := make([]string, 0, 3)
	for i := f.faker.Number(1, 3); i > 0; i-- {
		tags = append(tags, strings.ToLower(f.faker.Word()))
	}
	prompt := &models.Prompt{
		Title:       strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 6)), "."),
		Content:     f.faker.Paragraph(1, 3, 12, "\n"),
		Description: f.faker.Sentence(14),
		Model:       f.randomModel(),
		Category:    f.randomCategory(),
		Tags:        models.NewTagList(tags...),
		AuthorID:    author.ID,
		ViewCount:   int64(views),
		CopyCount:   int64(f.faker.Number(0, views/4)),
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(prompt)
	}
	return prompt
}

// BuildCuratedPrompt turns a catalog entry into a prompt owned by author.
func (f *Factory) BuildCuratedPrompt(author *models.User, cp CuratedPrompt) *models.Prompt {
	return f.BuildPrompt(author, func(p *models.Prompt) {
		p.Title = cp.Title
		p.Content = strings.TrimSpace(cp.Content)
		p.Description = ""
		p.Model = models.ParseModelRef(cp.Model)
		if cat, ok := models.ParseCategory(cp.Category); ok {
			p.Category = cat
		}
		p.Tags = models.NewTagList(cp.Tags...)
	})
}

// CreatePrompt persists a built prompt.
func (f *Factory) CreatePrompt(prompt *models.Prompt) (*models.Prompt, error) {
	if f.opts.DryRun {
		prompt.ID = uuid.NewString()
		return prompt, nil
	}
	if err := f.db.Omit(clause.Associations).Create(prompt).Error; err != nil {
		return nil, fmt.Errorf("create prompt %q: %w", prompt.Title, err)
	}
	return prompt, nil
}

// FeedbackMessage returns a plausible feedback body.
func (f *Factory) FeedbackMessage() string {
	return f.faker.Sentence(f.faker.Number(8, 20))
}

// Score returns a rating skewed towards the upper half of the scale.
func (f *Factory) Score() int {
	return f.faker.RandomInt([]int{2, 3, 3, 4, 4, 4, 5, 5, 5, 1})
}

// Pick returns up to n distinct indexes below size in random order.
func (f *Factory) Pick(size, n int) []int {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	if n < size {
		idx = idx[:n]
	}
	return idx
}
