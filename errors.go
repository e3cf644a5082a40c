package skipgram

import "errors"

var (
	// ErrCorruptMetadata marks a size, total or unknown-count file that is missing,
	// empty or not a single decimal integer.
	ErrCorruptMetadata = errors.New("corrupt metadata")
	// ErrCorruptShard marks a shard file with a non-numeric line or a length that
	// disagrees with its size file.
	ErrCorruptShard = errors.New("corrupt shard")
	// ErrInvariantViolation is returned for caller configuration errors such as
	// batchSize % numSkips != 0.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrAlignmentMismatch means the sorted shard and size lists do not pair up.
	ErrAlignmentMismatch = errors.New("shard/size alignment mismatch")
)
