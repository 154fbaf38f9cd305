package fetcher

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestRenameDescriptors(t *testing.T) {
	testCases := []struct {
		name    string
		files   []string
		want    []string
		gone    []string
		wantErr string
	}{
		{
			name:  "descriptors under presentation",
			files: []string{"/src/presentation/foo_abc123.amd", "/src/presentation/foo_abc123.smd"},
			want:  []string{"/src/presentation/application_metadata.amd", "/src/presentation/site_metadata.smd"},
			gone:  []string{"/src/presentation/foo_abc123.amd", "/src/presentation/foo_abc123.smd"},
		},
		{
			name:  "descriptors at tree root",
			files: []string{"/src/foo.amd", "/src/foo.smd"},
			want:  []string{"/src/application_metadata.amd", "/src/site_metadata.smd"},
			gone:  []string{"/src/foo.amd", "/src/foo.smd"},
		},
		{
			name:  "already stable names",
			files: []string{"/src/presentation/application_metadata.amd", "/src/presentation/site_metadata.smd"},
			want:  []string{"/src/presentation/application_metadata.amd", "/src/presentation/site_metadata.smd"},
		},
		{
			name:    "missing application descriptor",
			files:   []string{"/src/presentation/foo.smd"},
			wantErr: "no .amd descriptor",
		},
		{
			name:    "ambiguous site descriptor",
			files:   []string{"/src/presentation/a.amd", "/src/presentation/one.smd", "/src/presentation/two.smd"},
			wantErr: "expected one .smd descriptor",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, fs.MkdirAll("/src/presentation", 0755))
			for _, path := range tc.files {
				require.NoError(t, afero.WriteFile(fs, path, []byte("content"), 0644))
			}

			f := New(fs, nil, testConfig("/downloads"))
			err := f.renameDescriptors("/src")
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)

			for _, path := range tc.want {
				exists, err := afero.Exists(fs, path)
				require.NoError(t, err)
				require.True(t, exists, path)
			}
			for _, path := range tc.gone {
				exists, err := afero.Exists(fs, path)
				require.NoError(t, err)
				require.False(t, exists, path)
			}
		})
	}
}

// Two checkouts with different reference ids must end up with identical
// descriptor filenames, so their trees diff cleanly.
func TestRenameDescriptorsStableAcrossReferenceIDs(t *testing.T) {
	stable := func(refID string) []string {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/src/presentation/"+refID+".amd", []byte("a"), 0644))
		require.NoError(t, afero.WriteFile(fs, "/src/presentation/"+refID+".smd", []byte("s"), 0644))

		f := New(fs, nil, testConfig("/downloads"))
		require.NoError(t, f.renameDescriptors("/src"))

		names, err := afero.Glob(fs, "/src/presentation/*")
		require.NoError(t, err)
		return names
	}

	require.Equal(t, stable("foo_abc123"), stable("bar_zz9"))
}

func TestPrettyPrintOrchestrations(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/orchestration", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/orchestration/flow.orchestration", []byte(`{"b":2,"a":[1,2]}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/orchestration/sub.suborchestration", []byte(`{"x":true}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/orchestration/draft.orchestration", []byte("not json"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/orchestration/other.txt", []byte("untouched"), 0644))

	f := New(fs, nil, testConfig("/downloads"))
	require.NoError(t, f.prettyPrintOrchestrations("/src"))

	got, err := afero.ReadFile(fs, "/src/orchestration/flow.orchestration")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": 2\n}\n", string(got))

	got, err = afero.ReadFile(fs, "/src/orchestration/sub.suborchestration")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"x\": true\n}\n", string(got))

	// Invalid JSON and unrelated files pass through untouched.
	got, err = afero.ReadFile(fs, "/src/orchestration/draft.orchestration")
	require.NoError(t, err)
	require.Equal(t, "not json", string(got))
	got, err = afero.ReadFile(fs, "/src/orchestration/other.txt")
	require.NoError(t, err)
	require.Equal(t, "untouched", string(got))
}
