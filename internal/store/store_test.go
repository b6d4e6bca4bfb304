package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/contact"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMessages(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, db.SaveMessage(ctx, contact.Message{
			ID:          email,
			SenderEmail: email,
			Body:        "hello",
			ReceivedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := db.RecentMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "c@example.com", msgs[0].SenderEmail)
	assert.Equal(t, base.Add(2*time.Minute), msgs[0].ReceivedAt)

	m, err := db.Message(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Body)

	require.NoError(t, db.DeleteMessage(ctx, "a@example.com"))
	_, err = db.Message(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteMessage(ctx, "a@example.com"), ErrNotFound)
}

func TestSaveMessageAsSender(t *testing.T) {
	db := openTest(t)
	var s contact.Sender = contact.SenderFunc(db.SaveMessage)
	require.NoError(t, s.Send(context.Background(), contact.Message{ID: "x", SenderEmail: "x@y.z", Body: "b", ReceivedAt: time.Now()}))

	msgs, err := db.RecentMessages(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestVisitorsAndStats(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	at := func(t time.Time) { db.now = func() time.Time { return t } }

	at(now.Add(-400 * 24 * time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "old", "ua", "/"))
	at(now.Add(-3 * 24 * time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "h1", "ua", "/"))
	at(now.Add(-time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "h1", "ua", "/sections/skills"))
	require.NoError(t, db.RecordVisit(ctx, "h2", "ua", "/"))

	at(now)
	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	assert.EqualValues(t, 0, stats.TotalMessages)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Count: 3}, stats.TopPaths[0])
	assert.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, now.Add(-time.Hour), stats.RecentVisitors[0].Timestamp)

	removed, err := db.CleanupVisitors(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.RecordVisit(context.Background(), "h", "ua", "/"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	visits, err := db.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}

func TestScanPathCountsReportsIterationError(t *testing.T) {
	db := openTest(t)

	// the second row fails while stepping, after the first was read
	rows, err := db.QueryContext(context.Background(), `
		SELECT column1, CASE WHEN column1 = '/b' THEN json_extract('not json', '$') ELSE 1 END
		FROM (VALUES ('/a'), ('/b'))`)
	require.NoError(t, err)

	counts, err := scanPathCounts(rows)
	assert.Error(t, err)
	assert.Nil(t, counts)
}
