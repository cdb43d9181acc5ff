package seed

import (
	"path/filepath"
	"testing"

	"eco-report/internal/config"
	"eco-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, u := range Users() {
		assert.False(t, seen[u.UserID], u.UserID)
		seen[u.UserID] = true
		assert.Len(t, u.UserID, 32)
	}
	for _, c := range Communities() {
		assert.False(t, seen[c.CommunityID], c.CommunityID)
		seen[c.CommunityID] = true
	}
	for _, pt := range ProblemTypes() {
		assert.False(t, seen[pt.TypeID], pt.TypeID)
		seen[pt.TypeID] = true
	}
	for _, p := range Problems() {
		assert.False(t, seen[p.ProblemID], p.ProblemID)
		seen[p.ProblemID] = true
	}
}

func TestFirstUserIsAdmin(t *testing.T) {
	users := Users()
	require.NotEmpty(t, users)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	for _, u := range users[1:] {
		assert.Equal(t, models.RoleUser, u.Role)
		assert.NotEmpty(t, u.CommunityID)
	}
}

func TestResolvedProblemsCarryResolver(t *testing.T) {
	for _, p := range Problems() {
		if p.Status == models.StatusResolved {
			assert.NotEmpty(t, p.ResolvedBy)
			assert.NotNil(t, p.ResolvedAt)
		}
		assert.NotEmpty(t, p.ImagePaths)
	}
}

func TestCopiesAreIndependent(t *testing.T) {
	a := Problems()
	a[0].Title = "changed"
	a[0].ImagePaths[0] = "changed"

	b := Problems()
	assert.Equal(t, "电梯故障", b[0].Title)
	assert.Equal(t, "uploads/b0da2a3e406c.jpg", b[0].ImagePaths[0])
}

func TestApplyIsRepeatable(t *testing.T) {
	db, err := models.Open(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "seed.db")})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	require.NoError(t, Apply(db))
	require.NoError(t, Apply(db))

	var count int64
	require.NoError(t, db.Model(&models.Problem{}).Count(&count).Error)
	assert.Equal(t, int64(len(Problems())), count)

	var resolved models.Problem
	require.NoError(t, db.First(&resolved, "problem_id = ?", "cf649bf6240a463b99945157a5e20fe4").Error)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	assert.Equal(t, models.StringList{"uploads/2bf613b3dfe8.jpg"}, resolved.ResolvedImagePaths)
}

func TestApplyFillsEveryTable(t *testing.T) {
	db, err := models.Open(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "fresh.db")})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	require.NotPanics(t, func() { assert.NoError(t, Apply(db)) })

	counts := map[any]int{
		&models.User{}:        len(Users()),
		&models.Community{}:   len(Communities()),
		&models.ProblemType{}: len(ProblemTypes()),
		&models.Problem{}:     len(Problems()),
	}
	for model, want := range counts {
		var got int64
		require.NoError(t, db.Model(model).Count(&got).Error)
		assert.Equal(t, int64(want), got, "%T", model)
	}

	var community models.Community
	first := Communities()[0]
	require.NoError(t, db.First(&community, "community_id = ?", first.CommunityID).Error)
	assert.Equal(t, first.CommunityText, community.CommunityText)
	assert.Equal(t, first.Latitude, community.Latitude)
}
