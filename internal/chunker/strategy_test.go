package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"characters":  Characters,
		"Sentences":   Sentences,
		" paragraphs": Paragraphs,
		"SEMANTIC":    Semantic,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("embedding")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestDefaultParams(t *testing.T) {
	assert.Equal(t, Params{Size: 200}, DefaultParams(Characters))
	assert.Equal(t, Params{Size: 200}, DefaultParams(Sentences))
	assert.Equal(t, Params{Size: 400}, DefaultParams(Paragraphs))
	assert.Equal(t, Params{Size: 300}, DefaultParams(Semantic))

	assert.Equal(t, Params{Size: 400, Overlap: 0}, Params{}.WithDefaults(Paragraphs))
	assert.Equal(t, Params{Size: 12, Overlap: 3}, Params{Size: 12, Overlap: 3}.WithDefaults(Characters))
}

func TestSplit_Dispatch(t *testing.T) {
	text := "abcdefghij"
	got, err := Split(Characters, text, Params{Size: 4, Overlap: 1})
	require.NoError(t, err)
	want, err := ChunkByCharacters(text, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = Split(Sentences, "A. B. C.", Params{Size: 4})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSplit_Errors(t *testing.T) {
	_, err := Split(Sentences, "A. B.", Params{Size: 10, Overlap: 2})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Split(Characters, "abc", Params{Size: 2, Overlap: 2})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Split(Strategy("topics"), "abc", Params{Size: 2})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("..."))
	assert.Equal(t, 2, EstimateTokens("Hello, world!"))
	assert.Equal(t, 133, EstimateTokens(strings.Repeat("word ", 100)))
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		params   Params
		want     error
	}{
		{"characters ok", Characters, Params{Size: 4, Overlap: 3}, nil},
		{"characters overlap equals size", Characters, Params{Size: 4, Overlap: 4}, ErrInvalidParams},
		{"characters overlap above size", Characters, Params{Size: 4, Overlap: 9}, ErrInvalidParams},
		{"characters negative overlap", Characters, Params{Size: 4, Overlap: -1}, ErrInvalidParams},
		{"characters zero size", Characters, Params{}, ErrInvalidParams},
		{"sentences ok", Sentences, Params{Size: 1}, nil},
		{"sentences overlap", Sentences, Params{Size: 10, Overlap: 1}, ErrInvalidParams},
		{"paragraphs negative size", Paragraphs, Params{Size: -3}, ErrInvalidParams},
		{"semantic overlap", Semantic, Params{Size: 300, Overlap: 2}, ErrInvalidParams},
		{"unknown", Strategy("topics"), Params{Size: 10}, ErrUnknownStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(tt.strategy)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParamsValidate_AgreesWithSplit(t *testing.T) {
	for _, s := range Strategies() {
		for _, p := range []Params{{Size: 5}, {Size: 5, Overlap: 2}, {Size: 5, Overlap: 5}, {Size: 0}} {
			_, splitErr := Split(s, "Some text. More text.", p)
			assert.Equal(t, p.Validate(s) == nil, splitErr == nil, "%s %+v", s, p)
		}
	}
}
