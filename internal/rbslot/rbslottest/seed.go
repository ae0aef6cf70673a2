package rbslottest

import (
	"fmt"
	"time"
)

// Demo builds a dataset with one admin account (9999999999 / secret1,
// token "abc") and n records per resource.
func Demo(n int) Data {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	d := Data{
		Accounts: map[string]Account{
			"9999999999": {
				Password: "secret1",
				Token:    "abc",
				User:     WireUser{UserID: "u1", MobileNumber: "9999999999", Role: "admin"},
			},
		},
		Linked:   map[string][]WireUser{},
		PageSize: 10,
	}

	for i := 1; i <= n; i++ {
		at := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		uid := fmt.Sprintf("u%d", i)
		role := "user"
		if i == 1 {
			role = "admin"
		}
		d.Users = append(d.Users, WireUser{
			UserID:       uid,
			MobileNumber: fmt.Sprintf("98%08d", i),
			Role:         role,
			Balance:      float64(i * 1000),
			CreatedAt:    at,
		})

		status := "pending"
		switch i % 3 {
		case 1:
			status = "completed"
		case 2:
			status = "failed"
		}
		tx := WireTransaction{
			OrderID:   fmt.Sprintf("TX%04d", i),
			UserID:    uid,
			Amount:    float64(i * 150),
			Type:      "deposit",
			Status:    status,
			CreatedAt: at,
		}
		if i%2 == 0 {
			tx.Type = "withdrawal"
			tx.Meta = &WireTxMeta{BankAccount: &WireBankAccount{
				HolderName:    "Holder " + uid,
				AccountNumber: fmt.Sprintf("00012345%04d", i),
				IFSC:          "SBIN0001234",
				BankName:      "State Bank of India",
			}}
		}
		d.Transactions = append(d.Transactions, tx)

		depStatus := []string{"PENDING", "SUCCESS", "failed", "processing"}[i%4]
		d.Deposits = append(d.Deposits, WireDeposit{
			OrderID:        fmt.Sprintf("DP%04d", i),
			UserID:         uid,
			Amount:         float64(i * 500),
			Currency:       "INR",
			Status:         depStatus,
			UTR:            fmt.Sprintf("UTR%09d", i),
			CreatedAt:      at,
			UpdatedAt:      at,
			GatewayOrderNo: fmt.Sprintf("GW%06d", i),
		})

		d.Devices = append(d.Devices, WireDevice{
			ID:        fmt.Sprintf("dev-%d", i),
			UserID:    uid,
			DeviceID:  fmt.Sprintf("device-%d", i%5),
			IP:        fmt.Sprintf("10.0.0.%d", i%250),
			AdID:      fmt.Sprintf("ad-%d", i%7),
			UA:        "Mozilla/5.0 (Linux; Android 13)",
			CreatedAt: at,
		})
	}

	if n >= 3 {
		d.Linked["u2"] = []WireUser{
			{UserID: "u3", MobileNumber: d.Users[2].MobileNumber, Role: "user", Balance: d.Users[2].Balance},
		}
	}
	return d
}
