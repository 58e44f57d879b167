package file

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/genobase/bioread/fastq"
	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/sam"
	"github.com/genobase/bioread/stats"
	"github.com/genobase/bioread/vcf"
)

// StatsResponse is the JSON body returned by the statistics endpoints.
type StatsResponse struct {
	ID    string      `json:"id"`
	Rows  stats.Table `json:"rows"`
	Total int         `json:"total"`
}

// CountResponse is the JSON body returned by the count endpoints.
type CountResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// NewAlignmentStatsHandler builds a gin handler that serves per-chromosome
// alignment counts for the SAM file <directory>/<id>.sam.
func NewAlignmentStatsHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		r, err := sam.Open(directory + "/" + c.Param("id") + ".sam")
		if err != nil {
			c.String(http.StatusNotFound, "Error finding the file")
			return
		}
		defer r.Close()

		table, err := r.StatsByChromosome()
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading alignments")
			return
		}
		c.JSON(http.StatusOK, StatsResponse{ID: c.Param("id"), Rows: table, Total: table.Total()})
	}
}

// NewAlignmentCountHandler builds a gin handler that counts the alignments in
// <directory>/<id>.sam.  With referenceName (and optional start/end) query
// parameters it counts only the alignments overlapping that region.
func NewAlignmentCountHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		r, err := sam.Open(directory + "/" + c.Param("id") + ".sam")
		if err != nil {
			c.String(http.StatusNotFound, "Error finding the file")
			return
		}
		defer r.Close()

		region, err := regionFromQuery(c)
		if err != nil {
			c.String(http.StatusBadRequest, "Error parsing params")
			return
		}

		var count int
		if region == nil {
			count, err = r.Count()
		} else {
			var it *sam.RegionIter
			if it, err = r.FilterByRegion(*region); err == nil {
				count, err = drainAlignments(it)
			}
		}
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading alignments")
			return
		}
		c.JSON(http.StatusOK, CountResponse{ID: c.Param("id"), Count: count})
	}
}

// NewVariantStatsHandler builds a gin handler that serves per-chromosome
// variant counts for the VCF file <directory>/<id>.vcf.
func NewVariantStatsHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		r, err := vcf.Open(directory + "/" + c.Param("id") + ".vcf")
		if err != nil {
			c.String(http.StatusNotFound, "Error finding the file")
			return
		}
		defer r.Close()

		table, err := r.StatsByRegion()
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading variants")
			return
		}
		c.JSON(http.StatusOK, StatsResponse{ID: c.Param("id"), Rows: table, Total: table.Total()})
	}
}

// NewVariantCountHandler builds a gin handler that counts the variants in
// <directory>/<id>.vcf, optionally restricted to a region given by the
// referenceName/start/end query parameters.
func NewVariantCountHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		r, err := vcf.Open(directory + "/" + c.Param("id") + ".vcf")
		if err != nil {
			c.String(http.StatusNotFound, "Error finding the file")
			return
		}
		defer r.Close()

		region, err := regionFromQuery(c)
		if err != nil {
			c.String(http.StatusBadRequest, "Error parsing params")
			return
		}

		var count int
		if region == nil {
			count, err = r.Count()
		} else {
			var it *vcf.RegionIter
			if it, err = r.FilterByRegion(*region); err == nil {
				count, err = drainVariants(it)
			}
		}
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading variants")
			return
		}
		c.JSON(http.StatusOK, CountResponse{ID: c.Param("id"), Count: count})
	}
}

// NewReadSummaryHandler builds a gin handler that serves the per-file FASTQ
// summary for <directory>/<id>.fastq.
func NewReadSummaryHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		r, err := fastq.Open(directory + "/" + c.Param("id") + ".fastq")
		if err != nil {
			c.String(http.StatusNotFound, "Error finding the file")
			return
		}
		defer r.Close()

		summary, err := fastq.Summarize(r)
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading records")
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// regionFromQuery builds a Region from the referenceName, start and end query
// parameters.  It returns nil when no referenceName is given.
func regionFromQuery(c *gin.Context) (*genomics.Region, error) {
	name := c.Query("referenceName")
	if name == "" {
		return nil, nil
	}
	region := genomics.WholeChromosome(name)
	var err error
	if raw := c.Query("start"); raw != "" {
		if region.Start, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, err
		}
	}
	if raw := c.Query("end"); raw != "" {
		if region.End, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, err
		}
	}
	return &region, nil
}

func drainAlignments(it *sam.RegionIter) (int, error) {
	var count int
	for {
		if _, err := it.Next(); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return 0, err
		}
		count++
	}
}

func drainVariants(it *vcf.RegionIter) (int, error) {
	var count int
	for {
		if _, err := it.Next(); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return 0, err
		}
		count++
	}
}
