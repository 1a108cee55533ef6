package workflow

// State 工作流状态
type State int

const (
	StateDisconnected         State = iota // 未连接钱包
	StateConnecting                        // 等待用户授权
	StateConnected                         // 已连接，可以提交
	StateSubmitting                        // 正在提交验证交易
	StateAwaitingConfirmation              // 交易已提交，等待打包
	StateConfirmed                         // 本次提交成功
	StateFailed                            // 本次提交失败
)

var stateNames = map[State]string{
	StateDisconnected:         "Disconnected",
	StateConnecting:           "Connecting",
	StateConnected:            "Connected",
	StateSubmitting:           "Submitting",
	StateAwaitingConfirmation: "AwaitingConfirmation",
	StateConfirmed:            "Confirmed",
	StateFailed:               "Failed",
}

// String 状态名
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText 以状态名序列化
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InFlight 是否有提交正在进行
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateAwaitingConfirmation
}
