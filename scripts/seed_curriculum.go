// 课程结构导入脚本
//
// 从 YAML 文件批量导入项目/阶段/单元/子概念，用于首次部署或课程大版本更新。
// 导入后请通过 /api/admin/cache/evict 清除受影响用户的进度缓存。
//
// 用法: go run scripts/seed_curriculum.go curriculum.yaml

package main

import (
	"log"
	"os"

	"lms_progress_backend/internal/config"
	"lms_progress_backend/internal/model"
	"lms_progress_backend/pkg/database"
	"lms_progress_backend/pkg/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type curriculumFile struct {
	Programs []programSpec `yaml:"programs"`
}

type programSpec struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Stages      []stageSpec `yaml:"stages"`
}

type stageSpec struct {
	Name  string     `yaml:"name"`
	Units []unitSpec `yaml:"units"`
}

type unitSpec struct {
	Name        string           `yaml:"name"`
	Subconcepts []subconceptSpec `yaml:"subconcepts"`
}

type subconceptSpec struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Visibility string `yaml:"visibility"`
	MaxScore   int    `yaml:"max_score"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/seed_curriculum.go <curriculum.yaml>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取课程文件: %v", err)
	}

	var file curriculumFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Fatalf("解析课程文件失败: %v", err)
	}

	if err := seed(db, &file); err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	log.Printf("导入完成，共 %d 个项目", len(file.Programs))
}

func seed(db *gorm.DB, file *curriculumFile) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range file.Programs {
			program := model.Program{Name: p.Name, Description: p.Description}
			if err := tx.Create(&program).Error; err != nil {
				return err
			}

			for si, s := range p.Stages {
				stage := model.Stage{ProgramID: program.ID, Name: s.Name, Position: si}
				if err := tx.Create(&stage).Error; err != nil {
					return err
				}

				for ui, u := range s.Units {
					unit := model.Unit{StageID: stage.ID, Name: u.Name, Position: ui}
					if err := tx.Create(&unit).Error; err != nil {
						return err
					}

					for ci, c := range u.Subconcepts {
						sub := model.Subconcept{
							Name:       c.Name,
							Type:       c.Type,
							Visibility: c.Visibility,
							MaxScore:   c.MaxScore,
						}
						if sub.Type == "" {
							sub.Type = string(model.SubconceptNormal)
						}
						if sub.MaxScore == 0 {
							sub.MaxScore = 100
						}
						if err := tx.Create(&sub).Error; err != nil {
							return err
						}

						mapping := model.UnitSubconcept{
							UnitID:       unit.ID,
							SubconceptID: sub.ID,
							Position:     ci,
						}
						if err := tx.Create(&mapping).Error; err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
}
