package assets

import "testing"

func TestS3ObjectKey(t *testing.T) {
	s := &S3Store{bucket: "maplemade"}

	for _, tc := range []struct {
		path string
		want string
	}{
		{"https://maplemade.s3.amazonaws.com/items/1.png", "items/1.png"},
		{"http://minio:9000/maplemade/items/1.png", "items/1.png"}, // path-style
		{"items/1.png", "items/1.png"},
		{"/items/1.png", "items/1.png"},
		{"/uploads/legacy.png", ""}, // legacy disk upload, not ours
		{"", ""},
	} {
		if got := s.objectKey(tc.path); got != tc.want {
			t.Errorf("objectKey(%q)=%q, want %q", tc.path, got, tc.want)
		}
	}
}
