package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
	logimpl "github.com/weisyn/zkverify/internal/core/infrastructure/log"
)

const testAccount = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ContractAddress = "0x00000000000000000000000000000000000000aa"
	cfg.Log.ToConsole = false
	return cfg
}

func startApp(t *testing.T, cfg *config.Config, provider wallet.Provider) (App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a, err := BootstrapApp(context.Background(),
		WithConfig(cfg),
		WithComponents(ui.NewComponents(&out)),
		WithProvider(provider),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop() })
	return a, &out
}

func TestBootstrapApp(t *testing.T) {
	t.Run("已授权账户启动即连接", func(t *testing.T) {
		provider := wallet.NewMockProvider().Returns(wallet.MethodAccounts, []string{testAccount})
		a, out := startApp(t, testConfig(), provider)

		assert.Equal(t, workflow.StateConnected, a.Workflow().State())
		assert.Equal(t, testAccount, a.Workflow().Account())
		assert.Contains(t, out.String(), "wallet connected: "+testAccount)
		assert.Equal(t, 0, provider.CallCount(wallet.MethodRequestAccounts))
	})

	t.Run("没有钱包时提示安装", func(t *testing.T) {
		a, out := startApp(t, testConfig(), nil)

		assert.Equal(t, workflow.StateDisconnected, a.Workflow().State())
		assert.Contains(t, out.String(), "Install a wallet")
		assert.Empty(t, a.ObserverAddr())
	})

	t.Run("跳过启动检查", func(t *testing.T) {
		provider := wallet.NewMockProvider().Returns(wallet.MethodAccounts, []string{testAccount})
		a, err := BootstrapApp(context.Background(),
			WithConfig(testConfig()),
			WithComponents(ui.NewComponents(&bytes.Buffer{})),
			WithProvider(provider),
			WithoutExistingCheck(),
		)
		require.NoError(t, err)
		defer a.Stop()

		assert.Equal(t, workflow.StateDisconnected, a.Workflow().State())
		assert.Equal(t, 0, provider.CallCount(wallet.MethodAccounts))
	})

	t.Run("错误的证明格式无法启动", func(t *testing.T) {
		cfg := testConfig()
		cfg.ProofFormat = "base64"
		_, err := BootstrapApp(context.Background(),
			WithConfig(cfg),
			WithComponents(ui.NewComponents(&bytes.Buffer{})),
			WithProvider(nil),
		)
		assert.Error(t, err)
	})
}

func TestBootstrapApp_Observer(t *testing.T) {
	cfg := testConfig()
	cfg.ObserverAddr = "127.0.0.1:0"
	provider := wallet.NewMockProvider().Returns(wallet.MethodAccounts, []string{testAccount})
	a, _ := startApp(t, cfg, provider)

	addr := a.ObserverAddr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw struct {
		Data struct {
			State   string `json:"state"`
			Account string `json:"account"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "Connected", raw.Data.State)
	assert.Equal(t, testAccount, raw.Data.Account)
}

func TestProvideWallet(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantNil bool
		wantErr bool
	}{
		{
			name:    "不使用钱包",
			mutate:  func(cfg *config.Config) { cfg.Wallet = config.WalletNone },
			wantNil: true,
		},
		{
			name:   "RPC端点",
			mutate: func(cfg *config.Config) { cfg.Endpoint = "http://127.0.0.1:1" },
		},
		{
			name:    "无法识别的RPC端点",
			mutate:  func(cfg *config.Config) { cfg.Endpoint = "ftp://127.0.0.1:1" },
			wantNil: true,
		},
		{
			name: "keystore",
			mutate: func(cfg *config.Config) {
				cfg.Wallet = config.WalletKeystore
				cfg.KeystoreDir = filepath.Join(dir, "keystore")
				cfg.Endpoint = "http://127.0.0.1:1"
			},
		},
		{
			name: "口令文件不存在",
			mutate: func(cfg *config.Config) {
				cfg.Wallet = config.WalletKeystore
				cfg.KeystoreDir = filepath.Join(dir, "keystore")
				cfg.Endpoint = "http://127.0.0.1:1"
				cfg.PassphraseFile = filepath.Join(dir, "missing")
			},
			wantErr: true,
		},
		{
			name:    "未知模式",
			mutate:  func(cfg *config.Config) { cfg.Wallet = "browser" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			lc := fxtest.NewLifecycle(t)

			provider, err := ProvideWallet(WalletParams{
				Config:     cfg,
				Components: ui.NewComponents(&bytes.Buffer{}),
				Terminal:   terminal{in: os.Stdin, out: &bytes.Buffer{}},
				Logger:     logimpl.NewNop(),
				Lifecycle:  lc,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, provider)
			} else {
				assert.NotNil(t, provider)
			}
			lc.RequireStart().RequireStop()
		})
	}
}
