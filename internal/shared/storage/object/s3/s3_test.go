package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "ingest/resumes.csv", want: "ingest/resumes.csv"},
		{name: "simple prefix", prefix: "pipeline", key: "ingest/resumes.csv", want: "pipeline/ingest/resumes.csv"},
		{name: "prefix trailing slash", prefix: "pipeline/", key: "ingest/resumes.csv", want: "pipeline/ingest/resumes.csv"},
		{name: "prefix and key slashes", prefix: "/pipeline/", key: "/ingest/resumes.csv", want: "pipeline/ingest/resumes.csv"},
		{name: "nested prefix", prefix: "pipeline/v1", key: "training.jsonl", want: "pipeline/v1/training.jsonl"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}
