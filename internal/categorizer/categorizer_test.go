package categorizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vtran/txn-categorizer/internal/llm"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCategorizer(t *testing.T, client llm.Client, batchSize int) *Categorizer {
	t.Helper()
	builder, err := prompt.NewBuilder(prompt.LanguageEnglish, "")
	require.NoError(t, err)
	return NewCategorizer(client, builder, batchSize, "", logging.NewMockLogger())
}

// echoClient answers every prompt by assigning each listed remark the
// category named in the remark's first word.
func echoClient() *llm.MockClient {
	return &llm.MockClient{ChatFunc: func(_ context.Context, p string) (string, error) {
		body := p[strings.Index(p, "categories:\n")+len("categories:\n"):]
		body = body[:strings.Index(body, "\n\n")]
		var parts []string
		for _, line := range strings.Split(body, "\n") {
			cat := strings.Fields(line)[0]
			parts = append(parts, `{"transaction":"`+line+`","category":"`+cat+`"}`)
		}
		return "```json\n[" + strings.Join(parts, ",") + "]\n```", nil
	}}
}

func TestNewCategorizer_DefaultFallback(t *testing.T) {
	c := NewCategorizer(&llm.MockClient{}, nil, 0, "", nil)
	assert.Equal(t, "Other", c.Fallback())
}

func TestCategorize_SinglePrompt(t *testing.T) {
	client := echoClient()
	c := newTestCategorizer(t, client, 0)

	remarks := []string{"Food an trua", "Shopping mua sach", "Unknown xyz"}
	out, err := c.Categorize(context.Background(), []string{"Food", "Shopping"}, remarks)
	require.NoError(t, err)

	assert.Equal(t, 1, client.Calls())
	assert.Equal(t, 1, out.Batches)
	assert.Equal(t, 1, out.Fallback)
	require.Len(t, out.Categorized, 3)
	assert.Equal(t, "Food", out.Categorized[0].Category)
	assert.Equal(t, "Shopping", out.Categorized[1].Category)
	assert.Equal(t, "Other", out.Categorized[2].Category)
	assert.Len(t, out.RawResponses, 1)
}

func TestCategorize_Batches(t *testing.T) {
	client := echoClient()
	c := newTestCategorizer(t, client, 2)

	remarks := []string{"Food a", "Food b", "Shopping c", "Food d", "Shopping e"}
	out, err := c.Categorize(context.Background(), []string{"Food", "Shopping"}, remarks)
	require.NoError(t, err)

	assert.Equal(t, 3, client.Calls())
	assert.Equal(t, 3, out.Batches)
	require.Len(t, out.Categorized, 5)
	for i, row := range out.Categorized {
		assert.Equal(t, remarks[i], row.Transaction)
		assert.Equal(t, strings.Fields(remarks[i])[0], row.Category)
	}
	assert.NotContains(t, client.Prompts()[1], "Food a")
}

func TestCategorize_Empty(t *testing.T) {
	client := &llm.MockClient{}
	c := newTestCategorizer(t, client, 0)

	out, err := c.Categorize(context.Background(), []string{"Food"}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Categorized)
	assert.Zero(t, client.Calls())
}

func TestCategorize_ClientError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestCategorizer(t, &llm.MockClient{Err: boom}, 0)

	_, err := c.Categorize(context.Background(), []string{"Food"}, []string{"an trua"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, parsererror.IsResponseError(err))
}

func TestCategorize_UnparseableReply(t *testing.T) {
	c := newTestCategorizer(t, &llm.MockClient{Responses: []string{"I am not sure."}}, 0)

	out, err := c.Categorize(context.Background(), []string{"Food"}, []string{"an trua"})
	assert.True(t, parsererror.IsResponseError(err))
	assert.Equal(t, []string{"I am not sure."}, out.RawResponses)
}

func TestBatches(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, [][]string{items}, batches(items, 0))
	assert.Equal(t, [][]string{items}, batches(items, 10))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, batches(items, 2))
}
