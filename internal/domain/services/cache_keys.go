package services

import (
	"strings"

	"resqwave-dispatch-service/internal/domain/models"
)

// 缓存键
const (
	KeyRescueFormsAll   = "rescueForms:all"
	KeyPendingReports   = "pendingReports"
	KeyCompletedReports = "completedReports"
)

// GroupFamily selects the API family a group is served under. Both families
// read the same records but keep separate cache keys.
type GroupFamily string

const (
	FamilyCommunityGroup GroupFamily = "communityGroup"
	FamilyNeighborhood   GroupFamily = "neighborhood"
)

func activeLabel(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}

// alertListKey returns alerts:all or alerts:{status}
func alertListKey(status models.AlertStatus) string {
	if status == "" {
		return "alerts:all"
	}
	return "alerts:" + strings.ToLower(string(status))
}

func alertKey(id string) string {
	return "alert:" + id
}

func mapAlertsKey(status models.AlertStatus) string {
	if status == "" {
		return "mapAlerts:all"
	}
	return "mapAlerts:" + strings.ToLower(string(status))
}

func groupListKey(family GroupFamily, archived bool) string {
	if family == FamilyNeighborhood {
		return "neighborhoods:" + activeLabel(archived)
	}
	return "communityGroups:" + activeLabel(archived)
}

func groupKey(family GroupFamily, id string) string {
	if family == FamilyNeighborhood {
		return "neighborhood:" + id
	}
	return "communityGroup:" + id
}

func terminalListKey(archived bool) string {
	return "terminals:" + activeLabel(archived)
}

func terminalKey(id string) string {
	return "terminal:" + id
}

func rescueFormKey(id string) string {
	return "rescueForm:" + id
}

func aggregatedReportsKey(from, to string) string {
	return "aggregatedReports:" + from + ":" + to
}

// Tag sets per key family
var (
	alertTags      = []string{TagAlerts}
	mapAlertTags   = []string{TagAlerts, TagGroups, TagTerminals}
	groupTags      = []string{TagGroups, TagTerminals}
	terminalTags   = []string{TagTerminals}
	rescueFormTags = []string{TagRescueForms, TagAlerts, TagReports}
	reportTags     = []string{TagReports, TagRescueForms, TagAlerts, TagGroups, TagTerminals}
)
