// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "github.com/toeirei/medledger/internal/model"

// DefaultSeed returns the devices the registry starts with when no seed file
// is configured.
func DefaultSeed() []model.Device {
	return []model.Device{
		{
			ID: 1, Name: "内視鏡", Model: "NS-1000", Location: "内視鏡室",
			LastInspection: "2025-04-01", NextInspection: "2025-10-01",
			Repairs: []model.RepairRecord{
				{Date: "2024-12-15", Description: "レンズ交換"},
				{Date: "2025-03-10", Description: "ケーブル断線修理"},
			},
		},
		{
			ID: 2, Name: "MRI装置", Model: "MR-750", Location: "画像診断室",
			LastInspection: "2025-03-01", NextInspection: "2025-09-01",
			Repairs: []model.RepairRecord{
				{Date: "2025-01-05", Description: "ソフトウェア更新"},
			},
		},
		{
			ID: 3, Name: "CTスキャナ", Model: "CTX-300", Location: "画像診断室",
			LastInspection: "2025-04-15", NextInspection: "2025-10-15",
			Repairs: []model.RepairRecord{},
		},
		{
			ID: 4, Name: "麻酔器", Model: "AX-200", Location: "手術室A",
			LastInspection: "2025-02-20", NextInspection: "2025-08-20",
			Repairs: []model.RepairRecord{
				{Date: "2025-03-15", Description: "流量計交換"},
			},
		},
		{
			ID: 5, Name: "心電図モニター", Model: "ECG-10", Location: "ナースステーション",
			LastInspection: "2025-05-01", NextInspection: "2025-11-01",
			Repairs: []model.RepairRecord{},
		},
		{
			ID: 6, Name: "除細動器", Model: "DF-50", Location: "救急処置室",
			LastInspection: "2025-04-10", NextInspection: "2025-10-10",
			Repairs: []model.RepairRecord{
				{Date: "2025-01-10", Description: "バッテリー交換"},
			},
		},
		{
			ID: 7, Name: "輸液ポンプ", Model: "IP-300", Location: "病棟A",
			LastInspection: "2025-03-25", NextInspection: "2025-09-25",
			Repairs: []model.RepairRecord{},
		},
		{
			ID: 8, Name: "電子カルテ端末", Model: "PC-MED", Location: "診察室1",
			LastInspection: "2025-01-10", NextInspection: "2025-07-10",
			Repairs: []model.RepairRecord{
				{Date: "2025-02-20", Description: "画面表示不良修正"},
			},
		},
		{
			ID: 9, Name: "手術灯", Model: "OP-LUX", Location: "手術室B",
			LastInspection: "2025-04-20", NextInspection: "2025-10-20",
			Repairs: []model.RepairRecord{},
		},
		{
			ID: 10, Name: "血液分析装置", Model: "HB-500", Location: "検査室",
			LastInspection: "2025-03-30", NextInspection: "2025-09-30",
			Repairs: []model.RepairRecord{
				{Date: "2025-04-05", Description: "洗浄液漏れ修理"},
			},
		},
	}
}
