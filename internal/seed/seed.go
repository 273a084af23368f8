// Package seed fills a customer store with synthetic records for local
// development and demos.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edvin/customers/internal/model"
	"github.com/edvin/customers/internal/platform"
)

//go:embed names.yaml
var namesYAML []byte

type namePool struct {
	FirstNames []string `yaml:"first_names"`
	LastNames  []string `yaml:"last_names"`
	Domains    []string `yaml:"domains"`
}

// Creator is the part of store.CustomerStore the seeder writes through.
type Creator interface {
	Create(ctx context.Context, in model.NewCustomer) (model.Customer, error)
}

type Seeder struct {
	creator Creator
	pool    namePool
	rnd     *rand.Rand
	token   func(n int) string
}

func New(creator Creator) (*Seeder, error) {
	pool, err := loadNamePool(namesYAML)
	if err != nil {
		return nil, err
	}
	return &Seeder{
		creator: creator,
		pool:    pool,
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		token:   platform.RandomToken,
	}, nil
}

func loadNamePool(data []byte) (namePool, error) {
	var pool namePool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return namePool{}, fmt.Errorf("parse name pool: %w", err)
	}
	if len(pool.FirstNames) == 0 || len(pool.LastNames) == 0 || len(pool.Domains) == 0 {
		return namePool{}, fmt.Errorf("name pool needs first_names, last_names and domains")
	}
	return pool, nil
}

// Seed creates n customers and returns them in creation order. It stops at
// the first store error and returns what was created so far.
func (s *Seeder) Seed(ctx context.Context, n int) ([]model.Customer, error) {
	created := make([]model.Customer, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		c, err := s.creator.Create(ctx, s.next())
		if err != nil {
			return created, fmt.Errorf("seed customer %d of %d: %w", i+1, n, err)
		}
		created = append(created, c)
	}
	return created, nil
}

func (s *Seeder) next() model.NewCustomer {
	first := pick(s.rnd, s.pool.FirstNames)
	last := pick(s.rnd, s.pool.LastNames)
	domain := pick(s.rnd, s.pool.Domains)

	in := model.NewCustomer{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s.%s@%s", strings.ToLower(first), strings.ToLower(last), s.token(6), domain),
	}

	// Roughly one in five seeded customers has no phone.
	if s.rnd.IntN(5) != 0 {
		phone := s.phone()
		in.Phone = &phone
	}
	return in
}

// phone returns a North American E.164 number.
func (s *Seeder) phone() string {
	var b strings.Builder
	b.WriteString("+1")
	b.WriteByte(byte('2' + s.rnd.IntN(8)))
	for range 9 {
		b.WriteByte(byte('0' + s.rnd.IntN(10)))
	}
	return b.String()
}

func pick(rnd *rand.Rand, from []string) string {
	return from[rnd.IntN(len(from))]
}
