package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Seed is the initial actor forest for the memory backend.
type Seed struct {
	Actors []SeedActor `mapstructure:"actors"`
}

// SeedActor is one actor and, unless it is a root, its parent.
type SeedActor struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Role   string `mapstructure:"role"`
	Parent string `mapstructure:"parent"`
	Active *bool  `mapstructure:"active"`
}

// IsActive reports the actor's state; actors are active unless set otherwise.
func (a SeedActor) IsActive() bool {
	return a.Active == nil || *a.Active
}

// LoadSeed reads a seed file in any format viper understands.
func LoadSeed(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("unmarshaling seed file: %w", err)
	}
	for i, a := range seed.Actors {
		if a.ID == "" || a.Role == "" {
			return nil, fmt.Errorf("seed actor %d: id and role are required", i)
		}
	}
	return &seed, nil
}
