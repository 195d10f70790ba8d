package catalog

import (
	"gorm.io/datatypes"

	"garden-care-backend/internal/model"
)

func days(n int) *int { return &n }

func liters(v float64) *float64 { return &v }

func band(lo, hi, optimal float64) *model.Band {
	return &model.Band{Min: lo, Max: hi, Optimal: optimal}
}

func requirements(r model.EnvironmentRequirements) datatypes.JSONType[model.EnvironmentRequirements] {
	return datatypes.NewJSONType(r)
}

// Builtin returns the crops every deployment starts with. Each call returns
// fresh values, so callers may hand them to gorm for insertion.
func Builtin() []model.Crop {
	return []model.Crop{
		{
			Name:            "Tomato",
			ScientificName:  "Solanum lycopersicum",
			Type:            model.CropTypeVegetable,
			TotalGrowthDays: 90,
			Difficulty:      2,
			EnvironmentRequirements: requirements(model.EnvironmentRequirements{
				Temperature:  band(15, 30, 25),
				Humidity:     band(50, 80, 65),
				LightHours:   band(6, 10, 8),
				SoilPH:       band(6.0, 7.0, 6.5),
				SoilMoisture: band(50, 75, 65),
			}),
			CommonPests:  []string{"aphids", "whitefly", "late blight", "early blight"},
			Description:  "A common nightshade vegetable that suits beginners and gives nutritious fruit.",
			PlantingTips: "Needs full sun and staking. Pinch out side shoots to concentrate growth.",
			Stages: []model.GrowthStageRule{
				{
					Sequence: 1, Stage: model.StageSeed, StageDays: 7,
					WateringFrequency: days(1), WateringAmount: liters(0.5),
					StageTips: "Keep the soil moist at 20-25°C. Germinates in about 7 days.",
				},
				{
					Sequence: 2, Stage: model.StageSeedling, StageDays: 21,
					WateringFrequency: days(2), WateringAmount: liters(1.0),
					FertilizingFrequency: days(7), FertilizerType: "nitrogen-rich",
					WeedingFrequency: days(7), PestCheckFrequency: days(3),
					StageTips: "Give plenty of light to avoid legginess. A light nitrogen feed helps leaf growth.",
				},
				{
					Sequence: 3, Stage: model.StageGrowth, StageDays: 28,
					WateringFrequency: days(2), WateringAmount: liters(2.0),
					FertilizingFrequency: days(10), FertilizerType: "balanced compound",
					WeedingFrequency: days(7), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "staking", Description: "Put up supports once plants reach 30cm.", Once: true},
						{Task: "pruning", FrequencyDays: 7, Description: "Remove side shoots."},
					},
					StageTips: "Stake and prune on time. Keep air moving to prevent disease.",
				},
				{
					Sequence: 4, Stage: model.StageFlowering, StageDays: 14,
					WateringFrequency: days(1), WateringAmount: liters(2.0),
					FertilizingFrequency: days(7), FertilizerType: "phosphorus-potassium",
					WeedingFrequency: days(7), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "pollination", FrequencyDays: 2, Description: "Hand pollinate to improve fruit set."},
					},
					StageTips: "Water less while flowering and feed phosphorus and potassium.",
				},
				{
					Sequence: 5, Stage: model.StageFruiting, StageDays: 35,
					WateringFrequency: days(2), WateringAmount: liters(3.0),
					FertilizingFrequency: days(10), FertilizerType: "potassium-rich",
					WeedingFrequency: days(10), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "fruit thinning", Description: "Keep 4-5 fruits per truss.", Once: true},
					},
					StageTips: "Swelling fruit needs a lot of water. Potassium improves quality. Watch for cracking.",
				},
			},
		},
		{
			Name:            "Cucumber",
			ScientificName:  "Cucumis sativus",
			Type:            model.CropTypeVegetable,
			TotalGrowthDays: 65,
			Difficulty:      2,
			EnvironmentRequirements: requirements(model.EnvironmentRequirements{
				Temperature:  band(18, 32, 25),
				Humidity:     band(60, 90, 75),
				LightHours:   band(6, 10, 8),
				SoilPH:       band(6.0, 7.5, 6.5),
				SoilMoisture: band(60, 80, 70),
			}),
			CommonPests:  []string{"downy mildew", "powdery mildew", "aphids", "spider mites"},
			Description:  "Fast growing and high yielding. Well suited to home gardens.",
			PlantingTips: "Likes warm humid conditions. Grow on a trellis and pick young fruit often.",
			Stages: []model.GrowthStageRule{
				{
					Sequence: 1, Stage: model.StageSeed, StageDays: 5,
					WateringFrequency: days(1), WateringAmount: liters(0.5),
					StageTips: "Keep moist at 25-30°C. Germinates in about 5 days.",
				},
				{
					Sequence: 2, Stage: model.StageSeedling, StageDays: 15,
					WateringFrequency: days(1), WateringAmount: liters(1.0),
					FertilizingFrequency: days(5), FertilizerType: "well-rotted organic",
					WeedingFrequency: days(5), PestCheckFrequency: days(3),
					StageTips: "Give full light to avoid legginess and hold back water slightly.",
				},
				{
					Sequence: 3, Stage: model.StageGrowth, StageDays: 20,
					WateringFrequency: days(1), WateringAmount: liters(2.0),
					FertilizingFrequency: days(7), FertilizerType: "balanced compound",
					WeedingFrequency: days(7), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "trellising", Description: "Put up a trellis when vines start climbing.", Once: true},
					},
					StageTips: "Train vines onto the trellis and remove old leaves.",
				},
				{
					Sequence: 4, Stage: model.StageFlowering, StageDays: 10,
					WateringFrequency: days(1), WateringAmount: liters(2.0),
					FertilizingFrequency: days(5), FertilizerType: "phosphorus-potassium",
					WeedingFrequency: days(7), PestCheckFrequency: days(2),
					StageTips: "Keep water and feed steady during flowering. Hand pollinate if needed.",
				},
				{
					Sequence: 5, Stage: model.StageFruiting, StageDays: 25,
					WateringFrequency: days(1), WateringAmount: liters(3.0),
					FertilizingFrequency: days(5), FertilizerType: "compound plus potassium",
					WeedingFrequency: days(10), PestCheckFrequency: days(2),
					OtherTasks: []model.StageTask{
						{Task: "picking", FrequencyDays: 2, Description: "Pick young fruit to keep plants producing."},
					},
					StageTips: "Fruiting plants need plenty of water and feed. Regular picking extends the harvest.",
				},
			},
		},
		{
			Name:            "Lettuce",
			ScientificName:  "Lactuca sativa",
			Type:            model.CropTypeVegetable,
			TotalGrowthDays: 45,
			Difficulty:      1,
			EnvironmentRequirements: requirements(model.EnvironmentRequirements{
				Temperature:  band(15, 25, 18),
				Humidity:     band(60, 80, 70),
				LightHours:   band(4, 8, 6),
				SoilPH:       band(6.0, 7.0, 6.5),
				SoilMoisture: band(60, 75, 68),
			}),
			CommonPests:  []string{"aphids", "soft rot", "sclerotinia rot"},
			Description:  "Short season and easy care. Ideal for first-time growers.",
			PlantingTips: "Prefers cool weather. Shade it in summer and keep the soil moist.",
			Stages: []model.GrowthStageRule{
				{
					Sequence: 1, Stage: model.StageSeed, StageDays: 5,
					WateringFrequency: days(1), WateringAmount: liters(0.3),
					StageTips: "Keep the soil moist. 15-20°C is best.",
				},
				{
					Sequence: 2, Stage: model.StageSeedling, StageDays: 10,
					WateringFrequency: days(1), WateringAmount: liters(0.5),
					WeedingFrequency: days(5), PestCheckFrequency: days(5),
					StageTips: "Avoid harsh direct sun and keep air moving.",
				},
				{
					Sequence: 3, Stage: model.StageGrowth, StageDays: 25,
					WateringFrequency: days(1), WateringAmount: liters(1.0),
					FertilizingFrequency: days(10), FertilizerType: "nitrogen",
					WeedingFrequency: days(7), PestCheckFrequency: days(5),
					StageTips: "Keep the soil moist and side-dress with nitrogen.",
				},
				{
					Sequence: 4, Stage: model.StageHarvest, StageDays: 5,
					WateringFrequency: days(1), WateringAmount: liters(1.0),
					PestCheckFrequency: days(5),
					StageTips: "Harvest once heads are firm. Morning picking keeps best.",
				},
			},
		},
		{
			Name:            "Strawberry",
			ScientificName:  "Fragaria × ananassa",
			Type:            model.CropTypeFruit,
			TotalGrowthDays: 120,
			Difficulty:      3,
			EnvironmentRequirements: requirements(model.EnvironmentRequirements{
				Temperature:  band(15, 25, 20),
				Humidity:     band(60, 80, 70),
				LightHours:   band(8, 12, 10),
				SoilPH:       band(5.5, 6.5, 6.0),
				SoilMoisture: band(60, 75, 68),
			}),
			CommonPests:  []string{"grey mould", "powdery mildew", "aphids", "spider mites"},
			Description:  "A perennial with sweet fruit and broad appeal.",
			PlantingTips: "Needs full sun. Remove old leaves and runners and watch for disease.",
			Stages: []model.GrowthStageRule{
				{
					Sequence: 1, Stage: model.StageSeedling, StageDays: 30,
					WateringFrequency: days(2), WateringAmount: liters(0.8),
					FertilizingFrequency: days(10), FertilizerType: "organic",
					WeedingFrequency: days(7), PestCheckFrequency: days(5),
					StageTips: "Keep soil moist after transplanting and do not plant too deep.",
				},
				{
					Sequence: 2, Stage: model.StageGrowth, StageDays: 40,
					WateringFrequency: days(2), WateringAmount: liters(1.5),
					FertilizingFrequency: days(15), FertilizerType: "balanced compound",
					WeedingFrequency: days(10), PestCheckFrequency: days(5),
					OtherTasks: []model.StageTask{
						{Task: "runner removal", FrequencyDays: 7, Description: "Remove runners to focus the plant."},
					},
					StageTips: "Remove extra runners and old leaves to keep plants strong.",
				},
				{
					Sequence: 3, Stage: model.StageFlowering, StageDays: 20,
					WateringFrequency: days(1), WateringAmount: liters(1.5),
					FertilizingFrequency: days(10), FertilizerType: "phosphorus-potassium",
					WeedingFrequency: days(10), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "pollination", FrequencyDays: 2, Description: "Hand pollinate if needed."},
					},
					StageTips: "Water less during flowering and keep water off the blossoms.",
				},
				{
					Sequence: 4, Stage: model.StageFruiting, StageDays: 30,
					WateringFrequency: days(2), WateringAmount: liters(2.0),
					FertilizingFrequency: days(10), FertilizerType: "potassium",
					WeedingFrequency: days(10), PestCheckFrequency: days(3),
					OtherTasks: []model.StageTask{
						{Task: "mulching", Description: "Lay straw under the fruit to stop rot.", Once: true},
					},
					StageTips: "Swelling fruit needs water. Pick berries as they ripen.",
				},
			},
		},
		{
			Name:            "Bok Choy",
			ScientificName:  "Brassica rapa subsp. chinensis",
			Type:            model.CropTypeVegetable,
			TotalGrowthDays: 35,
			Difficulty:      1,
			EnvironmentRequirements: requirements(model.EnvironmentRequirements{
				Temperature:  band(15, 25, 20),
				Humidity:     band(60, 80, 70),
				LightHours:   band(4, 8, 6),
				SoilPH:       band(6.0, 7.5, 6.8),
				SoilMoisture: band(65, 80, 72),
			}),
			CommonPests:  []string{"cabbage worm", "aphids", "soft rot"},
			Description:  "Quick, nutritious and one of the easiest vegetables for new growers.",
			PlantingTips: "Likes cool moist weather. Short season with simple care.",
			Stages: []model.GrowthStageRule{
				{
					Sequence: 1, Stage: model.StageSeed, StageDays: 3,
					WateringFrequency: days(1), WateringAmount: liters(0.3),
					StageTips: "Keep the soil moist. Germinates in about 3 days.",
				},
				{
					Sequence: 2, Stage: model.StageSeedling, StageDays: 7,
					WateringFrequency: days(1), WateringAmount: liters(0.5),
					WeedingFrequency: days(5), PestCheckFrequency: days(3),
					StageTips: "Keep seedlings moist and watch for cabbage worm.",
				},
				{
					Sequence: 3, Stage: model.StageGrowth, StageDays: 20,
					WateringFrequency: days(1), WateringAmount: liters(1.0),
					FertilizingFrequency: days(7), FertilizerType: "nitrogen",
					WeedingFrequency: days(7), PestCheckFrequency: days(3),
					StageTips: "Side-dress with nitrogen and keep the soil moist.",
				},
				{
					Sequence: 4, Stage: model.StageHarvest, StageDays: 5,
					WateringFrequency: days(1), WateringAmount: liters(1.0),
					PestCheckFrequency: days(3),
					StageTips: "Harvest while leaves are tender. Can be picked in batches.",
				},
			},
		},
	}
}
