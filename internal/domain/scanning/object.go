package scanning

import (
	"fmt"
	"strings"
)

// scannableSuffix is the only object suffix the scanner inspects. The match
// is case-sensitive; "config.JSON" is skipped.
const scannableSuffix = ".json"

// ObjectRef identifies one object in a storage bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// NewObjectRef creates an ObjectRef for the given bucket and key.
func NewObjectRef(bucket, key string) ObjectRef {
	return ObjectRef{Bucket: bucket, Key: key}
}

// URI renders the reference in s3://bucket/key form, the identity recorded
// on alerts.
func (r ObjectRef) URI() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}

// Scannable reports whether the object key names a file the scanner handles.
func (r ObjectRef) Scannable() bool {
	return strings.HasSuffix(r.Key, scannableSuffix)
}

func (r ObjectRef) String() string { return r.URI() }
