// Package generator produces deterministic sample users and questionnaire
// answers for seeding development environments.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/priyal/unimatch/backend/internal/domain"
)

// Config controls dataset generation.
type Config struct {
	NumUsers int
	Seed     int64
}

// DefaultConfig returns sensible defaults for local seeding.
func DefaultConfig() Config {
	return Config{
		NumUsers: 50,
		Seed:     42,
	}
}

// SeedUser bundles everything needed to register one user and complete
// their questionnaire.
type SeedUser struct {
	User      domain.User
	Profile   domain.Profile
	Interests []domain.Interest
}

// Generator creates reproducible sample data.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New constructs a Generator with the given config.
func New(cfg Config) *Generator {
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = DefaultConfig().NumUsers
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate produces the configured number of seed users, alternating gender
// so the candidate pools are populated on both sides.
func (g *Generator) Generate() []SeedUser {
	users := make([]SeedUser, 0, g.cfg.NumUsers)
	for i := 0; i < g.cfg.NumUsers; i++ {
		gender := domain.GenderFemale
		namePool := femaleNames
		if i%2 == 1 {
			gender = domain.GenderMale
			namePool = maleNames
		}

		name := namePool[g.rng.Intn(len(namePool))]
		id := uuid.NewString()
		users = append(users, SeedUser{
			User: domain.User{
				ID:         id,
				Name:       name,
				Email:      fmt.Sprintf("%s.%d@university.edu", lower(name), i),
				Age:        domain.MinAge + g.rng.Intn(domain.MaxAge-domain.MinAge+1),
				Gender:     gender,
				University: universities[g.rng.Intn(len(universities))],
				Career:     careers[g.rng.Intn(len(careers))],
				Semester:   fmt.Sprintf("%d", 1+g.rng.Intn(10)),
				IsActive:   true,
			},
			Profile:   g.profile(),
			Interests: g.interests(),
		})
	}
	return users
}

func (g *Generator) profile() domain.Profile {
	return domain.Profile{
		RelationshipValues: pick(g.rng, relationshipValues),
		WeekendPreference:  pick(g.rng, weekendPreferences),
		ConversationStyle:  pick(g.rng, conversationStyles),
		SocialLife:         pick(g.rng, socialLives),
		RelationshipGoal:   pick(g.rng, relationshipGoals),
	}
}

func (g *Generator) interests() []domain.Interest {
	var interests []domain.Interest
	for _, category := range domain.Categories() {
		pool := interestPools[category]
		count := 1 + g.rng.Intn(3)
		for _, name := range sample(g.rng, pool, count) {
			interests = append(interests, domain.Interest{
				Name:     name,
				Category: category,
				Rating:   1 + g.rng.Intn(5),
			})
		}
	}
	return interests
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

// sample returns count distinct elements from pool.
func sample(rng *rand.Rand, pool []string, count int) []string {
	if count > len(pool) {
		count = len(pool)
	}
	indices := rng.Perm(len(pool))[:count]
	out := make([]string, 0, count)
	for _, idx := range indices {
		out = append(out, pool[idx])
	}
	return out
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

var femaleNames = []string{
	"Sofia", "Valentina", "Camila", "Isabella", "Mariana",
	"Daniela", "Gabriela", "Lucia", "Paula", "Andrea",
}

var maleNames = []string{
	"Santiago", "Mateo", "Sebastian", "Diego", "Nicolas",
	"Alejandro", "Daniel", "Samuel", "David", "Emiliano",
}

var universities = []string{
	"Universidad Nacional",
	"Universidad de los Andes",
	"Universidad Javeriana",
}

var careers = []string{
	"Computer Science", "Medicine", "Law", "Architecture",
	"Psychology", "Industrial Engineering", "Economics", "Design",
}

var interestPools = map[domain.InterestCategory][]string{
	domain.CategoryMusic: {
		"rock", "pop", "reggaeton", "jazz", "electronic", "indie",
	},
	domain.CategoryEntertainment: {
		"movies", "series", "anime", "gaming", "theater", "concerts",
	},
	domain.CategorySports: {
		"soccer", "gym", "running", "swimming", "tennis", "cycling",
	},
	domain.CategoryHobbies: {
		"cooking", "photography", "reading", "painting", "travel", "dancing",
	},
}

var relationshipValues = []string{"honesty", "loyalty", "communication", "independence"}
var weekendPreferences = []string{"party", "netflix", "outdoors", "study"}
var conversationStyles = []string{"deep", "funny", "casual", "intellectual"}
var socialLives = []string{"introvert", "extrovert", "ambivert"}
var relationshipGoals = []string{"serious", "casual", "friendship", "open"}
