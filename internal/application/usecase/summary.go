package usecase

import (
	"fmt"
	"sort"

	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
)

// Summarize walks a finished inventory document and rolls every resource
// up into per-type counts and capacity totals. Volumes nested inside EC2
// instances are counted under their own type key so block storage shows
// up even though the instances carry no capacity of their own.
func Summarize(account *entity.Account) entity.Summary {
	summary := entity.Summary{Types: make(map[string]entity.TypeSummary)}

	addGroup := func(group *entity.ResourceGroup) {
		if group == nil {
			return
		}
		for key, resources := range group.Resources {
			addResources(&summary, key, resources)
		}
		summary.ErrorCount += len(group.Errors)
	}

	addGroup(account.GlobalResources)
	for _, report := range account.Regions {
		addGroup(report.RegionWide)
		if report.Error != nil {
			summary.ErrorCount++
		}
		for _, vpc := range report.Vpcs {
			for key, resources := range vpc.Resources {
				addResources(&summary, key, resources)
			}
			for key, resources := range vpc.NetworkComponents {
				addResources(&summary, key, resources)
			}
			if vpc.SecurityGroups != nil {
				addResources(&summary, entity.TypeSecurityGroups, vpc.SecurityGroups)
			}
			summary.ErrorCount += len(vpc.Errors)
		}
	}

	return summary
}

func addResources(summary *entity.Summary, key string, resources []entity.Resource) {
	for _, resource := range resources {
		addOne(summary, key, resource.Capacity())
		if instance, ok := resource.(entity.EC2Instance); ok {
			for _, volume := range instance.Volumes {
				addOne(summary, entity.TypeEBSVolumes, volume.Capacity())
			}
		}
	}
	// A present key with zero records still registers the type as scanned.
	if _, ok := summary.Types[key]; !ok {
		summary.Types[key] = entity.TypeSummary{}
	}
}

func addOne(summary *entity.Summary, key string, capacity entity.Capacity) {
	entry := summary.Types[key]
	entry.Count++
	entry.TotalSizeBytes += capacity.SizeBytes
	entry.TotalAllocatedGB += capacity.AllocatedGB
	entry.TotalObjects += capacity.Objects
	summary.Types[key] = entry
	summary.TotalResources++
}

// renderSummary prints the per-type rollup as a console table, one row per
// type in alphabetical order.
func (uc *ScanUseCase) renderSummary(accountID string, summary entity.Summary) {
	uc.console.Println()
	uc.console.LogInfo("Inventory summary for account %s", accountID)

	keys := make([]string, 0, len(summary.Types))
	for key := range summary.Types {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := uc.console.CreateTable()
	table.AddColumn("Resource Type")
	table.AddColumn("Count")
	table.AddColumn("Size")
	table.AddColumn("Allocated")
	table.AddColumn("Objects")

	for _, key := range keys {
		entry := summary.Types[key]
		table.AddRow(
			key,
			fmt.Sprintf("%d", entry.Count),
			humanBytes(entry.TotalSizeBytes),
			humanGB(entry.TotalAllocatedGB),
			humanCount(entry.TotalObjects),
		)
	}
	uc.console.Print(table.Render())
	uc.console.LogInfo("Total resources: %d", summary.TotalResources)
}

func humanBytes(bytes int64) string {
	if bytes == 0 {
		return "-"
	}
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func humanGB(gb int64) string {
	if gb == 0 {
		return "-"
	}
	return fmt.Sprintf("%d GB", gb)
}

func humanCount(n int64) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}
