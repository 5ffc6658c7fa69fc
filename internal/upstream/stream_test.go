package upstream

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkLine(delta string) string {
	return `data: {"choices":[{"delta":{"content":"` + delta + `"}}]}` + "\n\n"
}

func collect(t *testing.T, raw string) []string {
	t.Helper()
	dec := NewDecoder(strings.NewReader(raw))
	var deltas []string
	for {
		delta, err := dec.Next()
		if err == io.EOF {
			return deltas
		}
		require.NoError(t, err)
		deltas = append(deltas, delta)
	}
}

func TestDecoder_ConcatenationLaw(t *testing.T) {
	raw := chunkLine("Hal") + chunkLine("lo ") + chunkLine("Nova") + "data: [DONE]\n\n"
	deltas := collect(t, raw)
	assert.Equal(t, "Hallo Nova", strings.Join(deltas, ""))
}

func TestDecoder_DoneSentinelNotForwarded(t *testing.T) {
	deltas := collect(t, "data: [DONE]\n\n")
	assert.Empty(t, deltas)
}

func TestDecoder_MalformedFragmentDropped(t *testing.T) {
	raw := chunkLine("a") + "data: not-json\n\n" + chunkLine("b")
	assert.Equal(t, []string{"a", "b"}, collect(t, raw))
}

func TestDecoder_CommentsAndKeepAlivesIgnored(t *testing.T) {
	raw := ":ping\n\n" + "event: message\n" + chunkLine("x") + "\n"
	assert.Equal(t, []string{"x"}, collect(t, raw))
}

func TestDecoder_EmptyDeltasSkipped(t *testing.T) {
	raw := `data: {"choices":[{"delta":{}}]}` + "\n\n" + chunkLine("y") +
		`data: {"choices":[]}` + "\n\n"
	assert.Equal(t, []string{"y"}, collect(t, raw))
}

func TestDecoder_MultiByteContent(t *testing.T) {
	raw := chunkLine("张") + chunkLine("é✓")
	assert.Equal(t, "张é✓", strings.Join(collect(t, raw), ""))
}

func TestDecoder_OneByteReads(t *testing.T) {
	raw := chunkLine("张") + chunkLine("é✓") + chunkLine(" klaar") + "data: [DONE]\n\n"
	dec := NewDecoder(iotest.OneByteReader(strings.NewReader(raw)))
	var deltas []string
	for {
		delta, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		deltas = append(deltas, delta)
	}
	assert.Equal(t, "张é✓ klaar", strings.Join(deltas, ""))
}
