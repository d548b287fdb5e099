// Package database ouvre la session ScyllaDB utilisée par le journal d'audit.
package database

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocql/gocql"
)

// --- Configuration ScyllaDB ---
type ScyllaConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// DefaultScyllaConfig applique les réglages de pool habituels.
func DefaultScyllaConfig(hosts []string, keyspace, username, password string) ScyllaConfig {
	return ScyllaConfig{
		Hosts:       hosts,
		Keyspace:    keyspace,
		Username:    username,
		Password:    password,
		CACertPath:  os.Getenv("SCYLLA_SSL_CA_PATH"),
		Timeout:     5 * time.Second,
		NumConns:    4,
		Consistency: gocql.LocalQuorum,
	}
}

// ConnectScylla crée la session pour le keyspace configuré.
func ConnectScylla(cfg ScyllaConfig) (*gocql.Session, error) {
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("SCYLLA_HOSTS non configuré")
	}

	cluster, err := newCluster(cfg)
	if err != nil {
		return nil, fmt.Errorf("erreur configuration cluster pour %s: %w", cfg.Keyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.Keyspace, err)
	}

	log.Printf("✅ Session ScyllaDB ouverte pour keyspace '%s'", cfg.Keyspace)
	return session, nil
}

func newCluster(cfg ScyllaConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = cfg.Consistency
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.ReconnectInterval = 1 * time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	return cluster, nil
}
