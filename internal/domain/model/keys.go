package model

// Mapping keys used in stored documents. These are shared with the other
// kernelci services that read and write the same collections, so the exact
// spelling matters.
const (
	IDKey       = "_id"
	JobKey      = "job"
	KernelKey   = "kernel"
	PrivateKey  = "private"
	StatusKey   = "status"
	UpdatedKey  = "updated"
	MetadataKey = "metadata"
)

// Recognized metadata keys. None is required or validated here; producers
// attach whichever ones the build toolchain exposes.
const (
	CrossCompileKey    = "cross_compile"
	CompilerVersionKey = "compiler_version"
	GitURLKey          = "git_url"
	GitBranchKey       = "git_branch"
	GitDescribeKey     = "git_describe"
	GitCommitKey       = "git_commit"
)

// JobCollection is the store collection job documents belong to.
const JobCollection = "job"

// MetadataKeys returns the recognized metadata keys.
func MetadataKeys() []string {
	return []string{
		CrossCompileKey,
		CompilerVersionKey,
		GitURLKey,
		GitBranchKey,
		GitDescribeKey,
		GitCommitKey,
	}
}
