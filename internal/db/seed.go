package db

import (
  "context"
  "fmt"

  "golang.org/x/crypto/bcrypt"

  "github.com/sahayakai/sahayak-backend/internal/data"
  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/repos"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

// SeedDemoUsers loads the embedded roster, hashes the demo passwords and
// upserts the accounts. Safe to run on every start.
func SeedDemoUsers(ctx context.Context, log *logger.Logger, userRepo repos.UserRepo) error {
  seeds, err := data.LoadSeedUsers()
  if err != nil {
    return err
  }

  users := make([]*types.User, 0, len(seeds))
  for _, seed := range seeds {
    hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
    if err != nil {
      return fmt.Errorf("hash password for %s: %w", seed.Username, err)
    }
    users = append(users, &types.User{
      ID:            seed.ID,
      Name:          seed.Name,
      Username:      seed.Username,
      PasswordHash:  string(hash),
      Role:          types.UserRole(seed.Role),
      District:      seed.District,
      Cluster:       seed.Cluster,
      School:        seed.School,
      Language:      seed.Language,
      GradeTeaching: seed.GradeTeaching,
      Subjects:      seed.Subjects,
    })
  }

  if err := userRepo.Upsert(ctx, nil, users); err != nil {
    return fmt.Errorf("seed users: %w", err)
  }
  log.Info("Demo roster seeded", "users", len(users))
  return nil
}

// SeedDemoSolutions plants a couple of shared solutions so the collective
// pool is not empty on a fresh start.
func SeedDemoSolutions(ctx context.Context, log *logger.Logger, solutionRepo repos.SolutionRepo) error {
  existing, err := solutionRepo.List(ctx, nil, repos.SolutionFilter{}, 1)
  if err != nil {
    return err
  }
  if len(existing) > 0 {
    return nil
  }

  seeds := []*types.Solution{
    {
      ID:          "sol-demo-1",
      Problem:     "बच्चे पहाड़े याद नहीं कर पा रहे",
      Solution:    "ताली के साथ पहाड़ा गवाओ। हर तीसरी संख्या पर ताली, बच्चे खुद ही लय पकड़ लेते हैं।",
      Grade:       3,
      Subject:     "Math",
      Topic:       "Multiplication",
      TeacherName: "Meena Kumari",
      District:    "Patna",
      TrustScore:  0.8,
      UsageCount:  24,
      SuccessRate: 0.85,
    },
    {
      ID:          "sol-demo-2",
      Problem:     "Children forget letters learned the previous day",
      Solution:    "Start every morning with a 2-minute air-writing round: children trace yesterday's letters in the air with both hands.",
      Grade:       1,
      Subject:     "English",
      Topic:       "Alphabet",
      TeacherName: "Anonymous Teacher",
      Anonymous:   true,
      TrustScore:  0.7,
      UsageCount:  11,
      SuccessRate: 0.7,
    },
  }

  for _, sol := range seeds {
    if _, err := solutionRepo.Save(ctx, nil, sol); err != nil {
      return fmt.Errorf("seed solution %s: %w", sol.ID, err)
    }
  }
  log.Info("Demo solutions seeded", "solutions", len(seeds))
  return nil
}
