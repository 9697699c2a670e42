package dto

import "jdmatch/internal/domain/jobdescription"

type SortInfo struct {
	Empty    bool `json:"empty"`
	Unsorted bool `json:"unsorted"`
	Sorted   bool `json:"sorted"`
}

// sortedInfo is reported for every page; results are always ordered.
var sortedInfo = SortInfo{Empty: false, Unsorted: false, Sorted: true}

type Pageable struct {
	Sort       SortInfo `json:"sort"`
	Offset     int      `json:"offset"`
	PageNumber int      `json:"pageNumber"`
	PageSize   int      `json:"pageSize"`
	Paged      bool     `json:"paged"`
	Unpaged    bool     `json:"unpaged"`
}

type DashboardStatsResponse struct {
	TotalJDs      int `json:"totalJDs"`
	TotalResumes  int `json:"totalResumes"`
	AverageScore  int `json:"averageScore"`
	StrongMatches int `json:"strongMatches"`
}

type JobDescriptionPageResponse struct {
	Content          []JobDescriptionResponse `json:"content"`
	Pageable         Pageable                 `json:"pageable"`
	Last             bool                     `json:"last"`
	TotalPages       int                      `json:"totalPages"`
	TotalElements    int64                    `json:"totalElements"`
	First            bool                     `json:"first"`
	Size             int                      `json:"size"`
	Number           int                      `json:"number"`
	Sort             SortInfo                 `json:"sort"`
	NumberOfElements int                      `json:"numberOfElements"`
	Empty            bool                     `json:"empty"`
	Stats            *DashboardStatsResponse  `json:"stats"`
}

func NewJobDescriptionPageResponse(p jobdescription.Page) JobDescriptionPageResponse {
	content := make([]JobDescriptionResponse, 0, len(p.Content))
	for _, jd := range p.Content {
		content = append(content, NewJobDescriptionResponse(jd))
	}

	var stats *DashboardStatsResponse
	if p.Stats != nil {
		stats = &DashboardStatsResponse{
			TotalJDs:      p.Stats.TotalJDs,
			TotalResumes:  p.Stats.TotalResumes,
			AverageScore:  p.Stats.AverageScore,
			StrongMatches: p.Stats.StrongMatches,
		}
	}

	return JobDescriptionPageResponse{
		Content: content,
		Pageable: Pageable{
			Sort:       sortedInfo,
			Offset:     p.Offset,
			PageNumber: p.PageNumber,
			PageSize:   p.PageSize,
			Paged:      true,
			Unpaged:    false,
		},
		Last:             p.Last,
		TotalPages:       p.TotalPages,
		TotalElements:    p.TotalElements,
		First:            p.First,
		Size:             p.PageSize,
		Number:           p.PageNumber,
		Sort:             sortedInfo,
		NumberOfElements: p.NumberOfElements,
		Empty:            p.Empty,
		Stats:            stats,
	}
}
