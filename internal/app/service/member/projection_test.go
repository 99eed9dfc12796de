package member

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/mirror"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
)

func TestCreate_ProjectionContainsNewMember(t *testing.T) {
	gdb := dbtest.NewSQLite(t)
	l := zap.NewNop().Sugar()
	cfg := &cfgpkg.Config{}
	cfg.Projection.Dir = filepath.Join(t.TempDir(), "projections")
	cfg.Projection.ActivityLimit = 50
	acts := activity.New(gdb, l)
	w := projection.NewWriter(gdb, acts, cfg, l)
	svc := NewService(gdb, mirror.New(), acts, w, l)

	m, err := svc.Create(context.Background(), scenarioInput())
	require.NoError(t, err)

	raw, err := os.ReadFile(w.Path(projection.SectionMembers))
	require.NoError(t, err)
	var members projection.Snapshot[projection.MemberView]
	require.NoError(t, json.Unmarshal(raw, &members))
	require.Len(t, members.Data, 1)
	require.Equal(t, m.ID, members.Data[0].ID)
	require.Equal(t, "a@x.com", members.Data[0].Email)
	require.False(t, members.LastSynced.IsZero())

	raw, err = os.ReadFile(w.Path(projection.SectionActivities))
	require.NoError(t, err)
	var acts2 projection.Snapshot[projection.ActivityView]
	require.NoError(t, json.Unmarshal(raw, &acts2))
	require.Len(t, acts2.Data, 1)
	require.Equal(t, m.ID, *acts2.Data[0].MemberID)
}
