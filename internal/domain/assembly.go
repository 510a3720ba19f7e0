package domain

import "strings"

// chromosomeLengths holds the 1-based length of each nuclear chromosome plus
// the mitochondrial genome, per assembly. Values are the canonical GRCh37
// (hg19) and GRCh38 (hg38) primary assembly contig lengths.
var chromosomeLengths = map[Assembly]map[string]int64{
	GRCh37: {
		"1": 249250621, "2": 243199373, "3": 198022430, "4": 191154276,
		"5": 180915260, "6": 171115067, "7": 159138663, "8": 146364022,
		"9": 141213431, "10": 135534747, "11": 135006516, "12": 133851895,
		"13": 115169878, "14": 107349540, "15": 102531392, "16": 90354753,
		"17": 81195210, "18": 78077248, "19": 59128983, "20": 63025520,
		"21": 48129895, "22": 51304566, "X": 155270560, "Y": 59373566,
		"MT": 16569,
	},
	GRCh38: {
		"1": 248956422, "2": 242193529, "3": 198295559, "4": 190214555,
		"5": 181538259, "6": 170805979, "7": 159345973, "8": 145138636,
		"9": 138394717, "10": 133797422, "11": 135086622, "12": 133275309,
		"13": 114364328, "14": 107043718, "15": 101991189, "16": 90338345,
		"17": 83257441, "18": 80373285, "19": 58617616, "20": 64444167,
		"21": 46709983, "22": 50818468, "X": 156040895, "Y": 57227415,
		"MT": 16569,
	},
}

// refseqAccessions maps the NC_* RefSeq accession (with version suffix)
// to the (assembly, chromosome) it names, for both supported assemblies.
var refseqAccessions = map[string]struct {
	Assembly   Assembly
	Chromosome string
}{
	// GRCh37
	"NC_000001.10": {GRCh37, "1"}, "NC_000002.11": {GRCh37, "2"},
	"NC_000003.11": {GRCh37, "3"}, "NC_000004.11": {GRCh37, "4"},
	"NC_000005.9": {GRCh37, "5"}, "NC_000006.11": {GRCh37, "6"},
	"NC_000007.13": {GRCh37, "7"}, "NC_000008.10": {GRCh37, "8"},
	"NC_000009.11": {GRCh37, "9"}, "NC_000010.10": {GRCh37, "10"},
	"NC_000011.9": {GRCh37, "11"}, "NC_000012.11": {GRCh37, "12"},
	"NC_000013.10": {GRCh37, "13"}, "NC_000014.8": {GRCh37, "14"},
	"NC_000015.9": {GRCh37, "15"}, "NC_000016.9": {GRCh37, "16"},
	"NC_000017.10": {GRCh37, "17"}, "NC_000018.9": {GRCh37, "18"},
	"NC_000019.9": {GRCh37, "19"}, "NC_000020.10": {GRCh37, "20"},
	"NC_000021.8": {GRCh37, "21"}, "NC_000022.10": {GRCh37, "22"},
	"NC_000023.10": {GRCh37, "X"}, "NC_000024.9": {GRCh37, "Y"},
	"NC_012920.1": {GRCh37, "MT"},
	// GRCh38
	"NC_000001.11": {GRCh38, "1"}, "NC_000002.12": {GRCh38, "2"},
	"NC_000003.12": {GRCh38, "3"}, "NC_000004.12": {GRCh38, "4"},
	"NC_000005.10": {GRCh38, "5"}, "NC_000006.12": {GRCh38, "6"},
	"NC_000007.14": {GRCh38, "7"}, "NC_000008.11": {GRCh38, "8"},
	"NC_000009.12": {GRCh38, "9"}, "NC_000010.11": {GRCh38, "10"},
	"NC_000011.10": {GRCh38, "11"}, "NC_000012.12": {GRCh38, "12"},
	"NC_000013.11": {GRCh38, "13"}, "NC_000014.9": {GRCh38, "14"},
	"NC_000015.10": {GRCh38, "15"}, "NC_000016.10": {GRCh38, "16"},
	"NC_000017.11": {GRCh38, "17"}, "NC_000018.10": {GRCh38, "18"},
	"NC_000019.10": {GRCh38, "19"}, "NC_000020.11": {GRCh38, "20"},
	"NC_000021.9": {GRCh38, "21"}, "NC_000022.11": {GRCh38, "22"},
	"NC_000023.11": {GRCh38, "X"}, "NC_000024.10": {GRCh38, "Y"},
}

// ChromosomeLength returns the length of chromosome in the given assembly,
// and whether the pair is recognized.
func ChromosomeLength(assembly Assembly, chromosome string) (int64, bool) {
	table, ok := chromosomeLengths[assembly]
	if !ok {
		return 0, false
	}
	length, ok := table[NormalizeChromosome(chromosome)]
	return length, ok
}

// NormalizeChromosome strips a leading "chr" (any case), upper-cases the
// remainder, and folds the mitochondrial synonyms "m"/"mt" to "MT", so
// "chr1", "Chr1", "1", "chrM", and "MT" all resolve to their canonical form
// (spec §3).
func NormalizeChromosome(chromosome string) string {
	c := chromosome
	if len(c) >= 3 && strings.EqualFold(c[:3], "chr") {
		c = c[3:]
	}
	c = strings.ToUpper(c)
	if c == "M" || c == "MT" {
		return "MT"
	}
	return c
}

// ResolveRefSeqAccession looks up an NC_* RefSeq accession (with or without
// version suffix) and returns the assembly and normalized chromosome it
// names.
func ResolveRefSeqAccession(accession string) (assembly Assembly, chromosome string, ok bool) {
	if hit, found := refseqAccessions[accession]; found {
		return hit.Assembly, hit.Chromosome, true
	}
	base := accession
	if idx := strings.Index(accession, "."); idx >= 0 {
		base = accession[:idx]
	}
	for acc, hit := range refseqAccessions {
		if strings.HasPrefix(acc, base+".") || acc == base {
			return hit.Assembly, hit.Chromosome, true
		}
	}
	return "", "", false
}
