package creds

import (
	"github.com/systmms/wsops/internal/export"
)

var credentialFields = []string{
	"first_name", "last_name", "email", "namespace", "username", "password", "vault_addr",
}

func writeAggregates(dir, base string, header []string, issued []Bundle) error {
	rows := make([][]string, 0, len(issued))
	for _, b := range issued {
		rows = append(rows, []string{
			b.FirstName, b.LastName, b.Email, b.Namespace, b.Username, b.Password, b.VaultAddr,
		})
	}
	return export.Files(dir, base, header, rows, issued)
}
