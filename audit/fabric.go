package audit

import (
	"context"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/linesmerrill/case-tracker-api/config"
)

const addCaseTransaction = "addCase"

// submitter is the part of *client.Contract the ledger uses
type submitter interface {
	SubmitWithContext(ctx context.Context, transactionName string, options ...client.ProposalOption) ([]byte, error)
}

// FabricLedger submits registrations to a Hyperledger Fabric chaincode
type FabricLedger struct {
	contract submitter
	gateway  *client.Gateway
	conn     *grpc.ClientConn
}

// NewFabricLedger connects to the gateway peer described by cfg
func NewFabricLedger(cfg config.FabricConfig) (*FabricLedger, error) {
	certPEM, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	cert, err := identity.CertificateFromPEM(certPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	id, err := identity.NewX509Identity(cfg.MSPID, cert)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	keyPEM, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	privateKey, err := identity.PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	sign, err := identity.NewPrivateKeySign(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	tlsCert, err := os.ReadFile(cfg.TLSCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read TLS certificate: %w", err)
	}
	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(tlsCert) {
		return nil, fmt.Errorf("failed to add TLS certificate to pool")
	}
	conn, err := grpc.NewClient(cfg.PeerEndpoint, grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(certPool, cfg.GatewayPeer)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	gateway, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(5*time.Second),
		client.WithEndorseTimeout(15*time.Second),
		client.WithSubmitTimeout(5*time.Second),
		client.WithCommitStatusTimeout(1*time.Minute),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect gateway: %w", err)
	}

	contract := gateway.GetNetwork(cfg.Channel).GetContract(cfg.Chaincode)
	return &FabricLedger{contract: contract, gateway: gateway, conn: conn}, nil
}

// RegisterCase implements Ledger
func (f *FabricLedger) RegisterCase(ctx context.Context, caseID, fingerprint string) error {
	_, err := f.contract.SubmitWithContext(ctx, addCaseTransaction, client.WithArguments(caseID, fingerprint))
	if err != nil {
		return fmt.Errorf("failed to submit %s: %w", addCaseTransaction, err)
	}
	return nil
}

// Close releases the gateway and its connection
func (f *FabricLedger) Close() {
	if f.gateway != nil {
		f.gateway.Close()
	}
	if f.conn != nil {
		f.conn.Close()
	}
}
