package domain

// ContractType tags a deployment in the ledger.
type ContractType string

const (
	TypeToken   ContractType = "token"
	TypeNFT     ContractType = "nft"
	TypeDAO     ContractType = "dao"
	TypeStaking ContractType = "staking"
	TypeVisual  ContractType = "visual"
)

// Project is one recorded deployment. JSON names follow the persisted columns.
type Project struct {
	ID              int64        `json:"id"`
	OwnerAddress    string       `json:"ownerAddress"`
	Type            ContractType `json:"type"`
	Name            string       `json:"name"`
	TransactionHash string       `json:"transactionHash"`
}

// Fields are the caller-supplied template values keyed by field name.
type Fields map[string]string

// DeployRequest carries a single-template deployment.
type DeployRequest struct {
	Type         ContractType
	OwnerAddress string
	Fields       Fields
}

// VisualDeployRequest carries a multi-component deployment.
type VisualDeployRequest struct {
	OwnerAddress string
	Name         string
	Components   []string
}

// DeployResult is returned to the caller after a successful publish.
type DeployResult struct {
	Message     string   `json:"message"`
	Transaction string   `json:"transaction"`
	Project     *Project `json:"-"`
}
