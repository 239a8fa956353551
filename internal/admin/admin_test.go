package admin

import (
	"strings"
	"testing"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAdmin_Config(t *testing.T) {
	a := NewPostAdmin()

	assert.Equal(t, []string{"text", "pub_date", "author"}, a.ListDisplay())
	assert.Contains(t, a.SearchFields(), "text")
	assert.Contains(t, a.ListFilter(), "pub_date")
	assert.Equal(t, "-empty-", a.EmptyValueDisplay())
}

func TestPostAdmin_ConfigIsImmutable(t *testing.T) {
	a := NewPostAdmin()
	cols := a.ListDisplay()
	cols[0] = "hacked"

	assert.Equal(t, "text", a.ListDisplay()[0])
}

func TestPostAdmin_Filter(t *testing.T) {
	a := NewPostAdmin()
	now := time.Date(2024, time.March, 15, 13, 30, 0, 0, time.UTC)

	f := a.Filter("  hello ", "", now)
	assert.Equal(t, "hello", f.Search)
	assert.Nil(t, f.Since)

	cases := map[string]time.Time{
		FilterToday:     time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		FilterPast7Days: time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
		FilterThisMonth: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		FilterThisYear:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	for value, want := range cases {
		f := a.Filter("", value, now)
		require.NotNil(t, f.Since, value)
		assert.True(t, want.Equal(*f.Since), value)
	}

	assert.Nil(t, a.Filter("", "yesterday", now).Since)
}

func TestPostAdmin_Rows(t *testing.T) {
	a := NewPostAdmin()
	pub := time.Date(2024, time.March, 15, 13, 30, 0, 0, time.UTC)

	rows := a.Rows([]*domain.Post{
		{ID: 1, Text: "Test post", PubDate: pub, Author: &domain.User{Username: "leo"}},
		{ID: 2, Text: "  "},
		{ID: 3, Text: strings.Repeat("я", 150), PubDate: pub, Author: &domain.User{Username: "leo"}},
	})
	require.Len(t, rows, 3)

	assert.Equal(t, uint(1), rows[0].PostID)
	assert.Equal(t, []string{"Test post", "Mar. 15, 2024, 13:30", "leo"}, rows[0].Cells)
	assert.Equal(t, []string{"-empty-", "-empty-", "-empty-"}, rows[1].Cells)
	assert.Equal(t, strings.Repeat("я", 100)+"…", rows[2].Cells[0])
}
