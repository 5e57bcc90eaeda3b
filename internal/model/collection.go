package model

import "gorm.io/gorm"

// NFTCollection groups minted NFTs under one on-chain contract.
// Created by a separate admin flow; the upload workflow only references it.
type NFTCollection struct {
	gorm.Model
	Name            string `json:"name" gorm:"size:200"`
	Description     string `json:"description"`
	Symbol          string `json:"symbol" gorm:"size:10"`
	ContractAddress string `json:"contract_address" gorm:"size:42"`
	Creator         string `json:"creator" gorm:"size:42"` // wallet address
}
