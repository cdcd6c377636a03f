package domain

// PRMetadata describes the pull request under review.
type PRMetadata struct {
	Number     int    `json:"pr_number"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	HeadBranch string `json:"head_branch"`
	BaseBranch string `json:"base_branch"`
	State      string `json:"state"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// FileDescriptor is one changed file in the pull request, including its
// fetched content. The file set is snapshotted once by the detect stage and
// treated as immutable by every analysis stage.
type FileDescriptor struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Content   string `json:"content"`
}
