package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0gfoundation/0g-payroll-funder/internal/config"
)

// Client is a read-only view of Payroll contracts on one chain.
// It never signs or sends transactions; funding calls are handed to an
// external submitter as unsigned instructions.
type Client struct {
	eth     *ethclient.Client
	caller  bind.ContractCaller
	chainID *big.Int
}

func NewClient(cfg *config.Config) (*Client, error) {
	eth, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{
		eth:     eth,
		caller:  eth,
		chainID: big.NewInt(cfg.Chain.ChainID),
	}, nil
}

// NewClientWithCaller builds a Client on top of an arbitrary contract caller
// (simulated backend, fakes in tests).
func NewClientWithCaller(caller bind.ContractCaller, chainID *big.Int) *Client {
	return &Client{caller: caller, chainID: chainID}
}

// ChainID returns the configured chain ID.
func (c *Client) ChainID() *big.Int { return c.chainID }

// Close releases the underlying RPC connection, if any.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}

// VerifyChainID checks that the RPC endpoint serves the configured chain.
// It is a no-op for clients built with NewClientWithCaller.
func (c *Client) VerifyChainID(ctx context.Context) error {
	if c.eth == nil {
		return nil
	}
	remote, err := c.eth.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("eth_chainId: %w", err)
	}
	if remote.Cmp(c.chainID) != 0 {
		return fmt.Errorf("rpc serves chain %s, configured %s", remote, c.chainID)
	}
	return nil
}

// TotalFunds calls getTotalFunds() on the payroll contract at addr and returns
// the balance in the asset's smallest unit.
func (c *Client) TotalFunds(ctx context.Context, addr common.Address) (*big.Int, error) {
	payroll, err := NewPayrollCaller(addr, c.caller)
	if err != nil {
		return nil, fmt.Errorf("bind payroll: %w", err)
	}
	funds, err := payroll.GetTotalFunds(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("GetTotalFunds: %w", err)
	}
	return funds, nil
}

// FundContractCalldata ABI-encodes a call to fundContract(). The function takes
// no arguments, so the result is the bare 4-byte selector.
func FundContractCalldata() ([]byte, error) {
	parsed, err := PayrollMetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("parse payroll abi: %w", err)
	}
	data, err := parsed.Pack("fundContract")
	if err != nil {
		return nil, fmt.Errorf("pack fundContract: %w", err)
	}
	return data, nil
}
