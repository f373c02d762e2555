// Package data holds the static catalogs shipped with the binary: curated
// quick-fix playbooks, NCERT references, fallback videos and the demo user
// roster. Everything is embedded and parsed once at startup.
package data

import (
  _ "embed"
  "fmt"

  "gopkg.in/yaml.v3"

  "github.com/sahayakai/sahayak-backend/internal/types"
)

//go:embed quick_fixes.yaml
var quickFixesYAML []byte

//go:embed ncert_references.yaml
var ncertRefsYAML []byte

//go:embed videos.yaml
var videosYAML []byte

//go:embed users.yaml
var usersYAML []byte

func LoadQuickFixes() ([]types.QuickFix, error) {
  var fixes []types.QuickFix
  if err := yaml.Unmarshal(quickFixesYAML, &fixes); err != nil {
    return nil, fmt.Errorf("parse quick fixes: %w", err)
  }
  return fixes, nil
}

func LoadNCERTRefs() ([]types.NCERTRef, error) {
  var refs []types.NCERTRef
  if err := yaml.Unmarshal(ncertRefsYAML, &refs); err != nil {
    return nil, fmt.Errorf("parse ncert references: %w", err)
  }
  return refs, nil
}

func LoadVideos() ([]types.Video, error) {
  var videos []types.Video
  if err := yaml.Unmarshal(videosYAML, &videos); err != nil {
    return nil, fmt.Errorf("parse videos: %w", err)
  }
  return videos, nil
}

// SeedUser is the raw roster entry; the plain password is hashed by the
// seeding step and never stored.
type SeedUser struct {
  ID            string   `yaml:"id"`
  Name          string   `yaml:"name"`
  Username      string   `yaml:"username"`
  Password      string   `yaml:"password"`
  Role          string   `yaml:"role"`
  District      string   `yaml:"district"`
  Cluster       string   `yaml:"cluster"`
  School        string   `yaml:"school"`
  Language      string   `yaml:"language"`
  GradeTeaching []int    `yaml:"grade_teaching"`
  Subjects      []string `yaml:"subjects"`
}

func LoadSeedUsers() ([]SeedUser, error) {
  var users []SeedUser
  if err := yaml.Unmarshal(usersYAML, &users); err != nil {
    return nil, fmt.Errorf("parse seed users: %w", err)
  }
  return users, nil
}
