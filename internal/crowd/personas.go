// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package crowd implements the Crowd agent's batch fan-out: N personas
// drawn from a fixed 20-archetype catalog, voting concurrently under a
// bounded in-flight limit.
package crowd

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var personasYAML []byte

// Archetype is one persona template in the catalog.
type Archetype struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Group string `yaml:"group"`
}

type catalogFile struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

var catalog []Archetype

func init() {
	var cf catalogFile
	if err := yaml.Unmarshal(personasYAML, &cf); err != nil {
		panic(fmt.Sprintf("crowd: malformed embedded persona catalog: %v", err))
	}
	if len(cf.Archetypes) == 0 {
		panic("crowd: embedded persona catalog is empty")
	}
	catalog = cf.Archetypes
}

// Catalog returns the 20 archetype templates.
func Catalog() []Archetype {
	return catalog
}

// Persona is one concrete voter, a catalog archetype assigned a stable id.
type Persona struct {
	VoterID string
	Label   string
}

// BuildPersonas cycles the catalog in file order to reach n voters. The
// four archetype groups are evenly represented when n is a multiple of
// the catalog size; for other n the earlier catalog entries get one more
// voter than the later ones.
func BuildPersonas(n int) []Persona {
	personas := make([]Persona, n)
	for i := 0; i < n; i++ {
		a := catalog[i%len(catalog)]
		personas[i] = Persona{
			VoterID: fmt.Sprintf("voter_%04d", i),
			Label:   a.Label,
		}
	}
	return personas
}
