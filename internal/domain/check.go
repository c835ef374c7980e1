package domain

// CheckKind identifies one risk dimension evaluated during a scan.
type CheckKind string

const (
	CheckMintAuthority   CheckKind = "MINT_AUTHORITY"
	CheckFreezeAuthority CheckKind = "FREEZE_AUTHORITY"
	CheckLiquidity       CheckKind = "LIQUIDITY"
	CheckHolders         CheckKind = "HOLDERS"
	CheckHoneypot        CheckKind = "HONEYPOT"
	CheckDevWallet       CheckKind = "DEV_WALLET"
	CheckBundle          CheckKind = "BUNDLE"
	CheckFunding         CheckKind = "FUNDING_CLUSTER"
	CheckSniper          CheckKind = "SNIPER"
	CheckTransferTax     CheckKind = "TRANSFER_TAX"
	CheckSocial          CheckKind = "SOCIAL"
	CheckRugPattern      CheckKind = "RUG_PATTERN"
)

// CheckStatus is the normalized verdict of a single check.
type CheckStatus string

const (
	StatusSafe    CheckStatus = "safe"
	StatusWarning CheckStatus = "warning"
	StatusDanger  CheckStatus = "danger"
	// StatusUnknown means the check could not be evaluated. Unknown checks
	// are excluded from weighted aggregation.
	StatusUnknown CheckStatus = "unknown"
)

// CheckResult is the uniform envelope every check produces exactly once
// per scan. Score is monotonic in perceived danger (0 = safest).
type CheckResult struct {
	Check   CheckKind      `json:"check"`
	Status  CheckStatus    `json:"status"`
	Score   int            `json:"score"`  // 0..100
	Weight  float64        `json:"weight"` // 0..1
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"` // per-check diagnostic attributes
}

// Detail returns the named detail attribute, or nil when absent.
func (r *CheckResult) Detail(key string) any {
	if r.Details == nil {
		return nil
	}
	return r.Details[key]
}

// SetDetail stores a diagnostic attribute, allocating the map on first use.
func (r *CheckResult) SetDetail(key string, value any) {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
}
