// Package config provides configuration management functionality for the zkverify client.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/zkverify/client/core/proof"
	logconfig "github.com/weisyn/zkverify/internal/config/log"
)

// 钱包模式
const (
	WalletRPC      = "rpc"      // 通过 JSON-RPC 端点访问已解锁账户
	WalletKeystore = "keystore" // 本地 keystore 目录，本地签名
	WalletNone     = "none"     // 不使用钱包（只能查看状态）
)

// 环境变量覆盖
const (
	EnvEndpoint = "ZKVERIFY_ENDPOINT"
	EnvContract = "ZKVERIFY_CONTRACT"
	EnvWallet   = "ZKVERIFY_WALLET"
)

// Duration 以字符串（如 "2s"）序列化的时间段
type Duration time.Duration

// MarshalJSON 实现 json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON 实现 json.Unmarshaler，兼容纳秒整数
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\"")
	}
	*d = Duration(n)
	return nil
}

// Std 转换为 time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config 客户端配置
type Config struct {
	// 钱包配置
	Wallet         string `json:"wallet"`                    // 钱包模式：rpc|keystore|none
	Endpoint       string `json:"endpoint"`                  // 钱包/节点 JSON-RPC 端点
	KeystoreDir    string `json:"keystore_dir"`              // keystore 目录
	Account        string `json:"account,omitempty"`         // 使用的 keystore 账户，空为第一个
	PassphraseFile string `json:"passphrase_file,omitempty"` // 口令文件，设置后启动时预先授权

	// 合约配置
	ContractAddress string `json:"contract_address"`   // 验证合约地址
	ABIPath         string `json:"abi_path,omitempty"` // 合约接口文件，空为内置接口
	VerifyMethod    string `json:"verify_method"`      // 验证方法名
	ProofFormat     string `json:"proof_format"`       // 证明文本格式：auto|hex|text|snarkjs

	// 确认配置
	PollInterval   Duration `json:"poll_interval"`   // 回执轮询间隔
	ConfirmTimeout Duration `json:"confirm_timeout"` // 等待确认超时，0 为不限

	// 观察接口
	ObserverAddr string `json:"observer_addr,omitempty"` // 只读 HTTP 接口监听地址，空为不启动

	// 日志
	Log *logconfig.LogOptions `json:"log,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Wallet:         WalletRPC,
		Endpoint:       "http://localhost:8545",
		KeystoreDir:    filepath.Join(DefaultDir(), "keystore"),
		VerifyMethod:   "verifyTx",
		ProofFormat:    string(proof.FormatAuto),
		PollInterval:   Duration(2 * time.Second),
		ConfirmTimeout: Duration(5 * time.Minute),
		Log:            logconfig.DefaultOptions(),
	}
}

// DefaultDir 默认配置目录 ~/.zkverify
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".zkverify"
	}
	return filepath.Join(homeDir, ".zkverify")
}

// DefaultPath 默认配置文件路径
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.json")
}

// Load 加载配置，文件不存在时返回默认配置（不写文件）
// 文件中缺省的字段保持默认值
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := DefaultConfig()

	//nolint:gosec // G304: 配置路径由用户指定
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Log == nil {
		cfg.Log = logconfig.DefaultOptions()
	}
	return cfg, nil
}

// Save 保存配置
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	//nolint:gosec // G301: 配置目录需要用户可读权限
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ApplyEnv 应用环境变量覆盖
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Endpoint = v
	}
	if v, ok := lookup(EnvContract); ok && v != "" {
		c.ContractAddress = v
	}
	if v, ok := lookup(EnvWallet); ok && v != "" {
		c.Wallet = strings.ToLower(v)
	}
}

// Validate 校验配置
// requireContract 为 true 时要求合约地址有效
func (c *Config) Validate(requireContract bool) error {
	switch c.Wallet {
	case WalletRPC:
		if c.Endpoint == "" {
			return fmt.Errorf("wallet mode %q requires an endpoint", c.Wallet)
		}
	case WalletKeystore:
		if c.KeystoreDir == "" {
			return fmt.Errorf("wallet mode %q requires keystore_dir", c.Wallet)
		}
		if c.Endpoint == "" {
			return fmt.Errorf("wallet mode %q requires a node endpoint", c.Wallet)
		}
		if c.Account != "" && !common.IsHexAddress(c.Account) {
			return fmt.Errorf("invalid keystore account %q", c.Account)
		}
	case WalletNone:
	default:
		return fmt.Errorf("unknown wallet mode %q (want rpc, keystore or none)", c.Wallet)
	}

	if requireContract && !common.IsHexAddress(c.ContractAddress) {
		if c.ContractAddress == "" {
			return fmt.Errorf("contract address is not configured")
		}
		return fmt.Errorf("invalid contract address %q", c.ContractAddress)
	}
	if _, err := proof.ParseFormat(c.ProofFormat); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.ConfirmTimeout < 0 {
		return fmt.Errorf("confirm_timeout must not be negative")
	}
	return nil
}

// ReadPassphrase 读取口令文件，去掉末尾换行
func (c *Config) ReadPassphrase() (string, bool, error) {
	if c.PassphraseFile == "" {
		return "", false, nil
	}
	//nolint:gosec // G304: 口令文件路径由用户配置
	data, err := os.ReadFile(c.PassphraseFile)
	if err != nil {
		return "", false, fmt.Errorf("reading passphrase file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), true, nil
}
