package domain

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"proxyvet/internal/proxyaddr"
	"proxyvet/internal/security"

	"gorm.io/gorm"
)

// Proxy is a stored proxy address. The plaintext password only lives on the
// struct; the column holds the encrypted form.
type Proxy struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Scheme   string `gorm:"size:10;not null;default:'http'" json:"type"`
	Host     string `gorm:"size:255;not null;index:idx_proxy_addr,priority:1" json:"host"`
	Port     int    `gorm:"not null;index:idx_proxy_addr,priority:2" json:"port"`
	Username string `gorm:"default:''" json:"username,omitempty"`
	Password string `gorm:"-" json:"-"`

	PasswordEncrypted string `gorm:"column:password;default:''" json:"-"`

	Static        bool   `json:"static"`
	Country       string `gorm:"size:56" json:"country,omitempty"`
	EstimatedType string `gorm:"size:20" json:"estimatedType,omitempty"` // ISP, Datacenter, Residential

	Checks []CheckResult `gorm:"foreignKey:ProxyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Users  []User        `gorm:"many2many:user_proxies;" json:"-"`

	Hash      []byte    `gorm:"type:bytea;uniqueIndex;size:32" json:"-"` // SHA-256 of scheme|host|port|username|password
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (proxy *Proxy) BeforeSave(_ *gorm.DB) error {
	if len(proxy.Hash) == 0 {
		proxy.GenerateHash()
	}

	if proxy.Password == "" {
		proxy.PasswordEncrypted = ""
		return nil
	}

	encrypted, err := security.EncryptCredential(proxy.Password)
	if err != nil {
		return err
	}

	proxy.PasswordEncrypted = encrypted
	return nil
}

func (proxy *Proxy) AfterFind(_ *gorm.DB) error {
	plain, err := security.DecryptCredential(proxy.PasswordEncrypted)
	if err != nil {
		return err
	}

	proxy.Password = plain
	return nil
}

func (proxy *Proxy) GenerateHash() {
	hash := sha256.Sum256([]byte(
		strings.ToLower(
			fmt.Sprintf("%s|%s|%d|%s|%s",
				proxy.Scheme,
				proxy.Host,
				proxy.Port,
				proxy.Username,
				proxy.Password,
			))))
	proxy.Hash = hash[:]
}

// FromParsed builds a storable Proxy from a parser result.
func FromParsed(parsed *proxyaddr.Proxy) Proxy {
	proxy := Proxy{
		Scheme:   parsed.Type,
		Host:     parsed.Host,
		Port:     parsed.Port,
		Username: parsed.Username,
		Password: parsed.Password,
	}
	proxy.GenerateHash()
	return proxy
}

func (proxy *Proxy) ToParsed() *proxyaddr.Proxy {
	return &proxyaddr.Proxy{
		Type:     proxy.Scheme,
		Host:     proxy.Host,
		Port:     proxy.Port,
		Username: proxy.Username,
		Password: proxy.Password,
	}
}

func (proxy *Proxy) HasAuth() bool {
	return proxy.Username != ""
}

func (proxy *Proxy) Addr() string {
	return fmt.Sprintf("%s:%d", proxy.Host, proxy.Port)
}
